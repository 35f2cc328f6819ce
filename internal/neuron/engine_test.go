package neuron_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/hrsim/internal/dynamo"
	"github.com/san-kum/hrsim/internal/integrators"
	"github.com/san-kum/hrsim/internal/neuron"
)

var _ = Describe("Engine", func() {
	var e *neuron.Engine

	BeforeEach(func() {
		e = neuron.New()
	})

	Describe("construction", func() {
		It("starts from the documented defaults", func() {
			s := e.State()
			Expect(s.X).To(Equal(-0.9013))
			Expect(s.Y).To(Equal(-3.1594))
			Expect(s.Z).To(Equal(3.24782))
			Expect(s.SynapticInput).To(BeZero())

			p := e.Params()
			Expect(p.E).To(Equal(3.0))
			Expect(p.Mu).To(Equal(0.006))
			Expect(p.S).To(Equal(4.0))
			Expect(p.Vh).To(Equal(1.0))
			Expect(p.BurstDuration).To(Equal(1.0))
			Expect(p.SamplePoints).To(Equal(1))
			Expect(p.PeriodSeconds).To(BeZero())
			Expect(p.Dt).To(BeZero())
			Expect(e.IntegratorName()).To(Equal("rk5"))
		})

		It("does not move before any period is known", func() {
			before := e.State()
			e.Step(0)
			Expect(e.State()).To(Equal(before))
			Expect(e.Ticks()).To(Equal(1))
		})
	})

	Describe("Configure", func() {
		DescribeTable("overwrites model parameters",
			func(key string, value float64, get func(neuron.Model) float64) {
				Expect(e.Configure(key, value)).To(BeTrue())
				Expect(get(e.Model())).To(Equal(value))
			},
			Entry("e", "e", 3.25, func(m neuron.Model) float64 { return m.Params.E }),
			Entry("mu", "mu", 0.01, func(m neuron.Model) float64 { return m.Params.Mu }),
			Entry("s", "s", 3.5, func(m neuron.Model) float64 { return m.Params.S }),
			Entry("vh", "vh", 0.8, func(m neuron.Model) float64 { return m.Params.Vh }),
			Entry("burst_duration", "burst_duration", 2.0, func(m neuron.Model) float64 { return m.Params.BurstDuration }),
			Entry("period_seconds", "period_seconds", 0.002, func(m neuron.Model) float64 { return m.Params.PeriodSeconds }),
			Entry("x", "x", 0.5, func(m neuron.Model) float64 { return m.State.X }),
			Entry("y", "y", -2.0, func(m neuron.Model) float64 { return m.State.Y }),
			Entry("z", "z", 3.0, func(m neuron.Model) float64 { return m.State.Z }),
		)

		It("derives dt from the period and sample count", func() {
			for _, period := range []float64{0.0001, 0.001, 0.02, 1} {
				for _, points := range []int{1, 3, 7, 250} {
					e.Configure("period_seconds", period)
					e.Configure("s_points", float64(points))
					Expect(e.Params().Dt).To(Equal(period/float64(points)),
						"period=%v points=%d", period, points)

					e.Configure("period_seconds", period*2)
					Expect(e.Params().Dt).To(Equal(period*2/float64(points)))
				}
			}
		})

		It("accepts sample_points as an alias", func() {
			e.Configure("period_seconds", 0.01)
			Expect(e.Configure("sample_points", 5)).To(BeTrue())
			Expect(e.Params().SamplePoints).To(Equal(5))
			Expect(e.Params().Dt).To(Equal(0.01 / 5))
		})

		DescribeTable("coerces the sample count",
			func(value float64, want int) {
				e.Configure("s_points", value)
				Expect(e.Params().SamplePoints).To(Equal(want))
			},
			Entry("zero", 0.0, 1),
			Entry("negative", -5.0, 1),
			Entry("fractional", 2.6, 3),
			Entry("NaN", math.NaN(), 1),
			Entry("huge", 1e9, neuron.MaxSamplePoints),
		)

		It("turns a time increment into a sample count", func() {
			e.Configure("period_seconds", 0.01)
			Expect(e.Configure("time_increment", 0.001)).To(BeTrue())
			Expect(e.Params().SamplePoints).To(Equal(10))
			Expect(e.Params().Dt).To(Equal(0.01 / 10))

			e.Configure("period_seconds", 0.02)
			Expect(e.Params().SamplePoints).To(Equal(20))

			Expect(e.Configure("time_increment", 0)).To(BeFalse())
			Expect(e.Configure("time_increment", -1)).To(BeFalse())
			Expect(e.Params().SamplePoints).To(Equal(20))

			e.Configure("s_points", 4)
			e.Configure("period_seconds", 0.04)
			Expect(e.Params().SamplePoints).To(Equal(4))
		})

		It("ignores unknown keys without touching the model", func() {
			before := e.Model()
			Expect(e.Configure("bogus", 1.0)).To(BeFalse())
			Expect(e.Model()).To(Equal(before))
		})

		It("is idempotent", func() {
			cfg := map[string]float64{
				"e": 3.1, "mu": 0.005, "s": 4.2, "vh": 1.1,
				"period_seconds": 0.001, "s_points": 4, "burst_duration": 1.5,
				"unknown": 7,
			}
			Expect(e.ConfigureAll(cfg)).To(ConsistOf("unknown"))
			first := e.Model()
			e.ConfigureAll(cfg)
			Expect(e.Model()).To(Equal(first))
		})

		It("switches to burst-synchronised timing", func() {
			e.Configure("period_seconds", 0.001)
			Expect(e.Configure("burst_sync", 1)).To(BeTrue())
			Expect(e.Params().BurstSync).To(BeTrue())
			Expect(e.Params().Dt).To(Equal(0.0933))
			Expect(e.Params().SamplePoints).To(Equal(3))

			e.Configure("burst_sync", 0)
			Expect(e.Params().Dt).To(Equal(0.001 / 3))
		})

		It("reports unknown names through SetParam", func() {
			Expect(e.SetParam("e", 2.0)).To(Succeed())
			err := e.SetParam("gain", 2.0)
			Expect(errors.Is(err, dynamo.ErrUnknownParam)).To(BeTrue())
			Expect(e.GetParams()).To(HaveKeyWithValue("e", 2.0))
		})
	})

	Describe("SetInput", func() {
		It("only accepts the synaptic channel", func() {
			Expect(e.SetInput("bogus", 1.0)).To(BeFalse())
			Expect(e.State().SynapticInput).To(BeZero())
			Expect(e.SetInput("i_syn", 0.75)).To(BeTrue())
			Expect(e.State().SynapticInput).To(Equal(0.75))
		})

		It("holds the value across ticks", func() {
			e.SetInput("i_syn", 1.25)
			e.Step(0.01)
			e.Step(0.01)
			Expect(e.State().SynapticInput).To(Equal(1.25))
		})

		It("depolarises less under positive synaptic current", func() {
			a, b := neuron.New(), neuron.New()
			b.SetInput("i_syn", 1.0)
			for i := 0; i < 10; i++ {
				a.Step(0.01)
				b.Step(0.01)
			}
			Expect(b.Output("x")).To(BeNumerically("<", a.Output("x")))
		})
	})

	Describe("Step", func() {
		It("reproduces the recorded trajectory", func() {
			golden := [][3]float64{
				{-0.9035847090385954, -3.158532067903136, 3.2477925416867137},
				{-0.9056888967474295, -3.1578699300669064, 3.247764558683453},
				{-0.907627648363869, -3.1573964214202794, 3.247736092510609},
				{-0.9094148562023913, -3.157095752421209, 3.2477071812105893},
				{-0.9110633030472024, -3.1569534098443035, 3.2476778596242313},
			}
			e.Configure("period_seconds", 0.01)
			for i, want := range golden {
				e.Step(0.01)
				Expect(e.Output("x")).To(BeNumerically("~", want[0], 1e-12), "tick %d", i)
				Expect(e.Output("y")).To(BeNumerically("~", want[1], 1e-12), "tick %d", i)
				Expect(e.Output("z")).To(BeNumerically("~", want[2], 1e-12), "tick %d", i)
			}
		})

		It("holds the input over sub-steps", func() {
			e.Configure("period_seconds", 0.01)
			e.Configure("s_points", 2)
			e.SetInput("i_syn", 1.0)
			for i := 0; i < 3; i++ {
				e.Step(0.01)
			}
			Expect(e.Output("x")).To(BeNumerically("~", -0.9343348061737945, 1e-12))
			Expect(e.Output("y")).To(BeNumerically("~", -3.1611675519966864, 1e-12))
			Expect(e.Output("z")).To(BeNumerically("~", 3.2477260974678237, 1e-12))
		})

		It("splits a tick into equal sub-steps", func() {
			fine := neuron.New()
			fine.Configure("period_seconds", 0.04)
			fine.Configure("s_points", 4)
			fine.Step(0.04)

			coarse := neuron.New()
			coarse.Configure("period_seconds", 0.01)
			for i := 0; i < 4; i++ {
				coarse.Step(0.01)
			}
			Expect(fine.State()).To(Equal(coarse.State()))
		})

		It("re-derives dt when the host period drifts", func() {
			e.Configure("period_seconds", 0.01)
			e.Step(0.02)
			Expect(e.Params().PeriodSeconds).To(Equal(0.02))
			Expect(e.Params().Dt).To(Equal(0.02))

			fresh := neuron.New()
			fresh.Configure("period_seconds", 0.02)
			fresh.Step(0.02)
			Expect(e.State()).To(Equal(fresh.State()))

			stale := neuron.New(neuron.WithSelfCorrect(false))
			stale.Configure("period_seconds", 0.01)
			stale.Step(0.02)
			Expect(stale.Params().Dt).To(Equal(0.01))
			Expect(stale.Output("x")).NotTo(Equal(e.Output("x")))
		})

		It("ignores non-positive host periods", func() {
			e.Configure("period_seconds", 0.01)
			e.Step(0)
			e.Step(-1)
			Expect(e.Params().PeriodSeconds).To(Equal(0.01))
		})

		It("records a fault on non-finite state when checking", func() {
			checked := neuron.New(neuron.WithFiniteCheck(true))
			checked.Configure("x", 1e200)
			checked.Step(0.01)
			Expect(checked.Fault()).To(HaveOccurred())
			Expect(errors.Is(checked.Fault(), dynamo.ErrInvalidState)).To(BeTrue())

			var simErr *dynamo.SimulationError
			Expect(errors.As(checked.Fault(), &simErr)).To(BeTrue())
			Expect(simErr.Step).To(Equal(1))

			e.Configure("x", 1e200)
			e.Step(0.01)
			Expect(e.Fault()).NotTo(HaveOccurred())
		})

		It("uses the configured integrator", func() {
			euler := neuron.New(neuron.WithIntegrator(integrators.NewEuler()))
			Expect(euler.IntegratorName()).To(Equal("euler"))
			euler.Configure("period_seconds", 0.01)
			euler.Step(0.01)

			x, y, z := neuron.DefaultX, neuron.DefaultY, neuron.DefaultZ
			dx := y + 3*x*x - x*x*x - z + 3.0
			Expect(euler.Output("x")).To(BeNumerically("~", x+0.01*dx, 1e-12))
		})
	})

	Describe("Output", func() {
		It("maps state and the potential aliases", func() {
			e.Configure("x", 0.5)
			Expect(e.Output("x")).To(Equal(0.5))
			Expect(e.Output("Membrane potential (V)")).To(Equal(0.5))
			Expect(e.Output("Membrane potential (mV)")).To(Equal(500.0))
			Expect(e.Output("y")).To(Equal(neuron.DefaultY))
			Expect(e.Output("z")).To(Equal(neuron.DefaultZ))
		})

		It("reads unknown names as zero", func() {
			before := e.Model()
			Expect(e.Output("bogus")).To(BeZero())
			Expect(e.Model()).To(Equal(before))
		})
	})

	Describe("independence", func() {
		It("produces identical sequences from identical drives", func() {
			a, b := neuron.New(), neuron.New()
			for _, n := range []*neuron.Engine{a, b} {
				n.Configure("period_seconds", 0.01)
				n.Configure("s_points", 3)
			}
			for i := 0; i < 200; i++ {
				in := math.Sin(float64(i) / 20)
				a.SetInput("i_syn", in)
				b.SetInput("i_syn", in)
				a.Step(0.01)
				b.Step(0.01)
				Expect(a.Output("x")).To(Equal(b.Output("x")))
			}
		})

		It("never shares state between engines", func() {
			a, b := neuron.New(), neuron.New()
			a.Configure("e", 5)
			a.Configure("x", 1)
			a.SetInput("i_syn", 2)
			a.Step(0.01)
			Expect(b.Model()).To(Equal(neuron.DefaultModel()))
		})
	})

	Describe("lifecycle", func() {
		It("resets to the configured initial conditions", func() {
			e.Configure("x", -1.2)
			e.Configure("period_seconds", 0.01)
			e.SetInput("i_syn", 0.3)
			for i := 0; i < 10; i++ {
				e.Step(0.01)
			}
			e.Reset()
			Expect(e.State().X).To(Equal(-1.2))
			Expect(e.State().Y).To(Equal(neuron.DefaultY))
			Expect(e.State().SynapticInput).To(Equal(0.3))
			Expect(e.Ticks()).To(BeZero())
			Expect(e.Time()).To(BeZero())
		})

		It("goes inert after Close", func() {
			e.Close()
			Expect(e.Closed()).To(BeTrue())
			Expect(e.Configure("e", 1)).To(BeFalse())
			Expect(e.SetInput("i_syn", 1)).To(BeFalse())
			e.Step(0.01)
			Expect(e.Output("x")).To(BeZero())
			Expect(e.IntegratorName()).To(BeEmpty())
		})
	})
})
