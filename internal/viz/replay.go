package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/physics"
)

const (
	canvasWidth  = 60
	canvasHeight = 16
	// seconds of trajectory visible at once
	window = 1.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(40)
)

type TickMsg time.Time

// Replay plays back a stored trajectory sample by sample. The ball is drawn
// on top of the tray motion inside a sliding time window.
type Replay struct {
	name    string
	res     *dynamo.Result
	head    int
	playing bool
	speed   int
	fps     int
	canvas  *Canvas
	help    bool
	lo, hi  float64
}

func NewReplay(name string, res *dynamo.Result) Replay {
	lo, hi := 0.0, 0.0
	for i := 0; i < res.Len(); i++ {
		lo = min(lo, res.Height[i], res.TrayHeight[i])
		hi = max(hi, res.Height[i], res.TrayHeight[i])
	}
	if hi == lo {
		hi = lo + 1
	}
	pad := 0.05 * (hi - lo)

	// roughly real time at 30 frames per second
	speed := 1
	if res.Dt > 0 {
		speed = max(1, int(1/(30*res.Dt)))
	}

	return Replay{
		name:    name,
		res:     res,
		playing: true,
		speed:   speed,
		fps:     30,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		lo:      lo - pad,
		hi:      hi + pad,
	}
}

func (m Replay) Head() int     { return m.head }
func (m Replay) Playing() bool { return m.playing }
func (m Replay) Speed() int    { return m.speed }

func (m Replay) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Replay) Init() tea.Cmd {
	return m.tick()
}

func (m Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "right", "l":
			m.seek(m.head + m.speed)
		case "left", "h":
			m.seek(m.head - m.speed)
		case "]":
			m.seek(m.nextCollision(1))
		case "[":
			m.seek(m.nextCollision(-1))
		case "+", "=":
			m.speed *= 2
		case "-":
			m.speed = max(1, m.speed/2)
		case "home", "g":
			m.seek(0)
		case "end", "G":
			m.seek(m.res.Len() - 1)
		case "t":
			m.cycleTheme()
		case "?":
			m.help = !m.help
		}
		return m, nil

	case TickMsg:
		if m.playing {
			m.seek(m.head + m.speed)
			if m.head == m.res.Len()-1 {
				m.playing = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Replay) seek(i int) {
	m.head = max(0, min(i, m.res.Len()-1))
}

// nextCollision returns the closest collision index strictly after (dir > 0)
// or before (dir < 0) the play head, or the head itself when there is none.
func (m Replay) nextCollision(dir int) int {
	cs := m.res.Collisions
	if dir > 0 {
		for _, c := range cs {
			if c > m.head {
				return c
			}
		}
		return m.head
	}
	for k := len(cs) - 1; k >= 0; k-- {
		if cs[k] < m.head {
			return cs[k]
		}
	}
	return m.head
}

func (m *Replay) cycleTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func (m Replay) viewport() Viewport {
	w, h := m.canvas.Dots()
	now := m.res.Times[m.head]
	t0 := max(0, now-window/2)
	return Viewport{T0: t0, T1: t0 + window, Y0: m.lo, Y1: m.hi, W: w, H: h}
}

func (m Replay) draw() {
	c := m.canvas
	c.Clear()
	vp := m.viewport()
	p := m.res.Params

	// tray over the whole window, sampled once per dot column
	px, py := -1, 0
	for x := 0; x < vp.W; x++ {
		t := vp.T0 + float64(x)/float64(vp.W-1)*(vp.T1-vp.T0)
		cx, cy := vp.Project(t, physics.TrayPosition(p.Omega, t, p.Amplitude))
		if px >= 0 {
			c.DrawLine(px, py, cx, cy)
		}
		px, py = cx, cy
	}

	// ball trail up to the play head
	px = -1
	for i := 0; i <= m.head; i++ {
		t := m.res.Times[i]
		if t < vp.T0 {
			continue
		}
		cx, cy := vp.Project(t, m.res.Height[i])
		if px >= 0 {
			c.DrawLine(px, py, cx, cy)
		}
		px, py = cx, cy
	}

	bx, by := vp.Project(m.res.Times[m.head], m.res.Height[m.head])
	c.Disc(bx, by-2, 2)
}

func (m Replay) View() string {
	m.draw()
	s := m.res.Sample(m.head)

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(strings.ToUpper(m.name)) + "\n")
	if m.playing {
		b.WriteString(StatusPlaying.Render(fmt.Sprintf("PLAYING x%d", m.speed)))
	} else {
		b.WriteString(StatusPaused.Render("PAUSED"))
	}
	b.WriteString("\n\n")

	b.WriteString(row("time", fmt.Sprintf("%.4fs", s.Time)))
	b.WriteString(row("sample", fmt.Sprintf("%d/%d", s.Index, m.res.Len()-1)))
	b.WriteString(row("height", fmt.Sprintf("%+.5f m", s.Height)))
	b.WriteString(row("velocity", fmt.Sprintf("%+.4f m/s", s.Velocity)))
	b.WriteString(row("tray", fmt.Sprintf("%+.5f m", s.TrayHeight)))
	b.WriteString(MetricLabel.Render("regime") + RegimeStyle(s.Regime).Render(s.Regime.String()) + "\n")

	landed := 0
	for _, c := range m.res.Collisions {
		if c <= m.head {
			landed++
		}
	}
	b.WriteString(row("collisions", fmt.Sprintf("%d/%d", landed, len(m.res.Collisions))))

	frac := 0.0
	if m.res.Len() > 1 {
		frac = float64(m.head) / float64(m.res.Len()-1)
	}
	b.WriteString("\n" + ProgressBar(frac, 30) + "\n")

	if m.head > 1 {
		from := max(0, m.head-300)
		chart := asciigraph.Plot(m.res.Velocity[from:m.head+1],
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("velocity"))
		b.WriteString("\n" + chart + "\n")
	}

	b.WriteString("\n" + KeyHint.Render("SPC play  ←/→ step  [/] collision\n+/- speed  g/G ends  t theme  q quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(b.String()))
	if m.help {
		return Panel.Render(helpText) + "\n" + main
	}
	return main
}

const helpText = `space     pause / resume
left/h    step back
right/l   step forward
[ / ]     previous / next collision
+ / -     faster / slower
g / G     first / last sample
t         cycle theme
?         toggle this help
q         quit`
