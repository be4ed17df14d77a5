package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/physics"
)

var _ = Describe("Regime switching", func() {
	var (
		rec *Recorder
		run func(p dynamo.Params) *dynamo.Result
	)

	BeforeEach(func() {
		rec = &Recorder{}
		run = func(p dynamo.Params) *dynamo.Result {
			res, err := New(WithObservers(rec)).Run(context.Background(), p, dynamo.DefaultSolverConfig())
			Expect(err).NotTo(HaveOccurred())
			return res
		}
	})

	Context("ball starting on the tray", func() {
		It("adheres at once when the tray cannot throw it", func() {
			res := run(params(5, 0.01, 0, 0, 1))

			Expect(res.Final).To(Equal(dynamo.Adhered))
			Expect(res.AdheredAt).To(Equal(1))
			Expect(res.Collisions).To(BeEmpty())
			for i := 1; i < res.Len(); i++ {
				Expect(res.Height[i]).To(Equal(physics.TrayPosition(5, res.Times[i], 0.01)))
			}
		})

		It("rides the tray until the predicted take-off instant", func() {
			p := params(25, 0.03, 0, 0, 1)
			sep := physics.PredictSeparation(p.Omega, p.Amplitude, p.Gravity)
			Expect(sep.Possible).To(BeTrue())

			res := run(p)

			Expect(rec.Transitions).NotTo(BeEmpty())
			first := rec.Transitions[0]
			Expect(first.From).To(Equal(dynamo.Contact))
			Expect(first.To).To(Equal(dynamo.Free))
			Expect(first.Time).To(Equal(sep.FirstTime))
			Expect(res.Times[first.Index]).To(Equal(sep.FirstTime))

			for i := 0; i < first.Index; i++ {
				Expect(res.Regimes[i]).To(Equal(dynamo.Contact))
				Expect(res.Height[i]).To(Equal(physics.TrayPosition(p.Omega, res.Times[i], p.Amplitude)))
			}
		})

		It("leaves at once when launched upward", func() {
			p := params(0, 0, 0, 2, 1)
			res := run(p)

			Expect(res.Regimes[1]).To(Equal(dynamo.Free))
			Expect(res.Collisions).NotTo(BeEmpty())
			Expect(res.Times[res.Collisions[0]]).To(BeNumerically("~", 2*p.Velocity/p.Gravity, 1e-11))
		})
	})

	Context("bouncing on a still tray", func() {
		It("loses a fixed fraction of relative speed per impact until it settles", func() {
			p := params(0, 0, 1, 0, 3)
			res := run(p)

			Expect(len(res.Collisions)).To(BeNumerically(">", 2))
			for k := 1; k < len(res.Collisions); k++ {
				prev, cur := res.Velocity[res.Collisions[k-1]], res.Velocity[res.Collisions[k]]
				Expect(cur).To(BeNumerically("~", p.Restitution*prev, 1e-9))
			}

			Expect(rec.Transitions).To(HaveLen(1))
			Expect(rec.Transitions[0].To).To(Equal(dynamo.Adhered))
			Expect(res.Final).To(Equal(dynamo.Adhered))
		})
	})

	Context("driven tray", func() {
		It("keeps every contact sample on the tray", func() {
			p := params(30, 0.05, 0.2, 0, 3)
			res := run(p)

			for i := 0; i < res.Len(); i++ {
				if res.Regimes[i] == dynamo.Free {
					continue
				}
				Expect(res.Height[i]).To(Equal(physics.TrayPosition(p.Omega, res.Times[i], p.Amplitude)))
				Expect(res.Velocity[i] - physics.TrayVelocity(p.Omega, res.Times[i], p.Amplitude)).
					To(BeNumerically(">=", -1e-12))
			}
		})

		It("never leaves a free sample below the tray for more than one step", func() {
			p := params(30, 0.05, 0.2, 0, 3)
			res := run(p)

			for i := 1; i < res.Len(); i++ {
				below := func(k int) bool {
					return res.Height[k] < physics.TrayPosition(p.Omega, res.Times[k], p.Amplitude)
				}
				Expect(below(i-1) && below(i)).To(BeFalse(), "samples %d and %d both below the tray", i-1, i)
			}
		})
	})
})
