package arena_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spheres/internal/arena"
	"github.com/san-kum/spheres/internal/physics"
	"github.com/san-kum/spheres/internal/vec"
)

var _ = Describe("Manager", func() {
	var m *arena.Manager

	BeforeEach(func() {
		m = arena.NewManager(physics.DefaultParams(), arena.Options{FrictionMin: 0.7, FrictionMax: 0.9, Seed: 42}, nil)
	})

	It("has no world before the first rebuild", func() {
		Expect(m.World()).To(BeNil())
	})

	Describe("Recreate", func() {
		It("seeds exactly BallCount balls inside the walls", func() {
			rebuilt, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeTrue())

			w := m.World()
			Expect(w.Len()).To(Equal(arena.BallCount))
			for _, b := range w.Bodies() {
				p := b.Position()
				Expect(p.X).To(BeNumerically(">=", b.Radius))
				Expect(p.X).To(BeNumerically("<=", 16-b.Radius))
				Expect(p.Y).To(BeNumerically(">=", b.Radius))
				Expect(p.Y).To(BeNumerically("<=", 12-b.Radius))
				Expect(b.Radius).To(BeNumerically(">=", 0.09*12))
				Expect(b.Radius).To(BeNumerically("<=", 0.11*12))
			}
		})

		It("draws ball friction from the configured range", func() {
			_, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			for _, b := range m.World().Bodies() {
				Expect(b.Friction).To(BeNumerically(">=", 0.7))
				Expect(b.Friction).To(BeNumerically("<", 0.9))
			}
		})

		It("uses a fixed friction when the range is empty", func() {
			fixed := arena.NewManager(physics.DefaultParams(), arena.DefaultOptions(), nil)
			_, err := fixed.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			for _, b := range fixed.World().Bodies() {
				Expect(b.Friction).To(Equal(0.9))
			}
		})

		It("places balls independently on each axis", func() {
			_, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			sameOffset := 0
			for _, b := range m.World().Bodies() {
				p := b.Position()
				fx := (p.X - b.Radius) / (16 - 2*b.Radius)
				fy := (p.Y - b.Radius) / (12 - 2*b.Radius)
				if math.Abs(fx-fy) < 1e-9 {
					sameOffset++
				}
			}
			Expect(sameOffset).To(BeNumerically("<", arena.BallCount))
		})

		It("normalizes so the long axis is world x", func() {
			_, err := m.Recreate(12, 16, 0.1)
			Expect(err).NotTo(HaveOccurred())
			w, h := m.World().Size()
			Expect(w).To(Equal(16.0))
			Expect(h).To(Equal(12.0))
		})

		It("skips the rebuild when the normalized size is unchanged", func() {
			_, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			before := m.World()
			first := before.Bodies()[0]
			pos := first.Position()

			rebuilt, err := m.Recreate(12, 16, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeFalse())
			Expect(m.World()).To(BeIdenticalTo(before))
			Expect(m.World().Bodies()[0]).To(BeIdenticalTo(first))
			Expect(first.Position()).To(Equal(pos))
			Expect(m.Rebuilds()).To(Equal(1))
		})

		It("replaces the world when the size changes", func() {
			_, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			before := m.World()

			rebuilt, err := m.Recreate(20, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeTrue())
			Expect(m.World()).NotTo(BeIdenticalTo(before))
			Expect(m.World().Len()).To(Equal(arena.BallCount))
		})

		It("carries gravity across rebuilds", func() {
			_, err := m.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			m.World().SetGravity(vec.Vec2{X: 0, Y: -9.8})

			_, err = m.Recreate(20, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.World().Gravity()).To(Equal(vec.Vec2{X: 0, Y: -9.8}))
		})

		DescribeTable("rejects invalid arguments and keeps the prior world",
			func(width, height, ratio float64) {
				_, err := m.Recreate(16, 12, 0.1)
				Expect(err).NotTo(HaveOccurred())
				before := m.World()

				rebuilt, err := m.Recreate(width, height, ratio)
				Expect(err).To(MatchError(arena.ErrInvalidArena))
				Expect(rebuilt).To(BeFalse())
				Expect(m.World()).To(BeIdenticalTo(before))
			},
			Entry("zero width", 0.0, 12.0, 0.1),
			Entry("negative height", 16.0, -1.0, 0.1),
			Entry("zero ratio", 16.0, 12.0, 0.0),
			Entry("negative ratio", 16.0, 12.0, -0.1),
			Entry("ratio too large", 16.0, 12.0, 0.5),
			Entry("NaN width", math.NaN(), 12.0, 0.1),
			Entry("infinite height", 16.0, math.Inf(1), 0.1),
		)
	})

	Describe("seeded determinism", func() {
		It("reproduces the same layout for the same seed", func() {
			a := arena.NewManager(physics.DefaultParams(), arena.Options{FrictionMin: 0.9, FrictionMax: 0.9, Seed: 7}, nil)
			b := arena.NewManager(physics.DefaultParams(), arena.Options{FrictionMin: 0.9, FrictionMax: 0.9, Seed: 7}, nil)
			_, err := a.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			_, err = b.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())

			for i := range a.World().Bodies() {
				Expect(a.World().Bodies()[i].Position()).To(Equal(b.World().Bodies()[i].Position()))
				Expect(a.World().Bodies()[i].Radius).To(Equal(b.World().Bodies()[i].Radius))
			}
		})
	})

	Describe("energy over boundary interaction", func() {
		DescribeTable("never gains kinetic energy from one tick to the next without gravity",
			func(seed int64) {
				mgr := arena.NewManager(physics.DefaultParams(), arena.Options{FrictionMin: 0.7, FrictionMax: 0.9, Seed: seed}, nil)
				_, err := mgr.Recreate(16, 12, 0.1)
				Expect(err).NotTo(HaveOccurred())
				w := mgr.World()

				// the seeding transient may push overlapping balls apart
				for i := 0; i < 50; i++ {
					w.Update()
				}
				prev := w.KineticEnergy()
				for i := 0; i < 200; i++ {
					w.Update()
					e := w.KineticEnergy()
					Expect(e).To(BeNumerically("<=", prev*(1+1e-6)+1e-12), "tick %d", i)
					prev = e
				}
			},
			Entry("seed 1", int64(1)),
			Entry("seed 2", int64(2)),
			Entry("seed 3", int64(3)),
			Entry("seed 42", int64(42)),
		)
	})
})
