package scene_test

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spheres/internal/arena"
	"github.com/san-kum/spheres/internal/orient"
	"github.com/san-kum/spheres/internal/scene"
	"github.com/san-kum/spheres/internal/touch"
	"github.com/san-kum/spheres/internal/vec"
)

func newScene(mutate func(*scene.Options)) *scene.Scene {
	opts := scene.DefaultOptions()
	opts.Arena.Seed = 1
	if mutate != nil {
		mutate(&opts)
	}
	sc, err := scene.New(opts, nil)
	Expect(err).NotTo(HaveOccurred())
	return sc
}

var _ = Describe("Scene", func() {
	Context("before the first resize", func() {
		It("refuses to update", func() {
			sc := newScene(nil)
			Expect(sc.Update()).To(MatchError(scene.ErrNoArena))
			Expect(sc.BallCount()).To(Equal(0))
			Expect(sc.Sprites()).To(BeEmpty())
		})

		It("ignores touches", func() {
			sc := newScene(nil)
			Expect(sc.Touch(vec.Vec2{X: 10, Y: 10})).To(Equal(0))
		})
	})

	It("rejects bad options", func() {
		opts := scene.DefaultOptions()
		opts.Policy = "pinch"
		_, err := scene.New(opts, nil)
		Expect(err).To(MatchError(touch.ErrUnknownPolicy))

		opts = scene.DefaultOptions()
		opts.Scale = 0
		_, err = scene.New(opts, nil)
		Expect(err).To(MatchError(scene.ErrInvalidScale))

		opts = scene.DefaultOptions()
		opts.RadiusRatio = 0
		_, err = scene.New(opts, nil)
		Expect(err).To(MatchError(arena.ErrInvalidArena))
	})

	Describe("Resize", func() {
		var sc *scene.Scene

		BeforeEach(func() {
			sc = newScene(nil)
			rebuilt, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeTrue())
		})

		It("seeds the arena in world units", func() {
			Expect(sc.BallCount()).To(Equal(arena.BallCount))
			st, err := sc.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Width).To(Equal(16.0))
			Expect(st.Height).To(Equal(12.0))
			Expect(st.Contained).To(BeTrue())

			r, ok := sc.BallRadius(0)
			Expect(ok).To(BeTrue())
			Expect(r).To(BeNumerically("~", 0.11*12, 0.011*12))
			_, ok = sc.BallRadius(arena.BallCount)
			Expect(ok).To(BeFalse())
		})

		It("is a no-op when the normalized size is unchanged", func() {
			before := sc.Poses()
			rebuilt, err := sc.Resize(480, 640)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeFalse())
			Expect(sc.Poses()).To(Equal(before))
		})

		It("keeps the layout when the size is rejected", func() {
			before := sc.Mapper()
			_, err := sc.Resize(0, 480)
			Expect(err).To(MatchError(arena.ErrInvalidArena))
			Expect(sc.Mapper()).To(Equal(before))
			Expect(sc.BallCount()).To(Equal(arena.BallCount))
		})

		It("keeps the snapshot length stable across updates", func() {
			for i := 0; i < 25; i++ {
				Expect(sc.Update()).To(Succeed())
				Expect(sc.BallCount()).To(Equal(arena.BallCount))
			}
			st, err := sc.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Tick).To(Equal(25))
		})

		It("reseeds on a real size change", func() {
			rebuilt, err := sc.Resize(800, 480)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeTrue())
			Expect(sc.BallCount()).To(Equal(arena.BallCount))
			st, _ := sc.Stats()
			Expect(st.Width).To(Equal(20.0))
		})
	})

	Describe("rotation", func() {
		It("maps published poses through the current rotation", func() {
			sc := newScene(nil)
			_, err := sc.Resize(480, 640)
			Expect(err).NotTo(HaveOccurred())

			for _, r := range orient.Rotations {
				sc.SetRotation(r)
				m := sc.Mapper()
				Expect(m.Rotation).To(Equal(r))
				poses, sprites := sc.Poses(), sc.Sprites()
				for i := range poses {
					Expect(sprites[i].Position.ApproxEqual(m.ToScreen(poses[i].Position), 1e-9)).To(BeTrue())
					Expect(sprites[i].Radius).To(BeNumerically("~", poses[i].Radius*40, 1e-9))
				}
			}
		})
	})

	Describe("radial touch", func() {
		It("kicks the ball under the pointer at max speed", func() {
			sc := newScene(nil)
			_, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())

			target := sc.Sprites()[0].Position
			Expect(sc.Touch(target)).To(BeNumerically(">=", 1))

			st, err := sc.Stats()
			Expect(err).NotTo(HaveOccurred())
			Expect(st.PeakSpeed).To(BeNumerically("~", 2.0, 1e-6))
		})
	})

	Describe("drag touch", func() {
		It("grabs, pulls and releases a ball", func() {
			sc := newScene(func(o *scene.Options) {
				o.Policy = touch.DragName
				o.RadiusRatio = 0.1
			})
			_, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())

			at := sc.Sprites()[3].Position
			Expect(sc.TouchDown(at)).To(Equal(1))
			Expect(sc.TouchMove(at.Add(vec.Vec2{X: 80}))).To(Equal(1))
			Expect(sc.TouchUp(at.Add(vec.Vec2{X: 80}))).To(Equal(1))
			Expect(sc.TouchMove(at)).To(Equal(0))

			st, _ := sc.Stats()
			Expect(st.PeakSpeed).To(BeNumerically(">", 0))
		})

		It("drops the grab when the arena is rebuilt", func() {
			sc := newScene(func(o *scene.Options) { o.Policy = touch.DragName })
			_, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())

			Expect(sc.TouchDown(sc.Sprites()[0].Position)).To(Equal(1))
			_, err = sc.Resize(800, 480)
			Expect(err).NotTo(HaveOccurred())
			Expect(sc.TouchMove(vec.Vec2{X: 1, Y: 1})).To(Equal(0))
		})
	})

	Describe("gravity", func() {
		It("scales the direction", func() {
			sc := newScene(nil)
			sc.SetGravity(vec.Vec2{X: 0, Y: -1}, 9.8)
			Expect(sc.Gravity()).To(Equal(vec.Vec2{X: 0, Y: -9.8}))
		})

		It("maps accelerometer samples and applies the factor", func() {
			sc := newScene(nil)
			g := sc.Tilt(9.8, 0)
			Expect(g.ApproxEqual(vec.Vec2{X: 0, Y: -39.2}, 1e-9)).To(BeTrue())
		})

		It("clamps extreme input", func() {
			sc := newScene(nil)
			_, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())
			sc.SetGravity(vec.Vec2{X: 1, Y: 0}, 1e6)
			Expect(sc.Gravity().Length()).To(BeNumerically("~", 60, 1e-9))
		})

		It("applies gravity set before the arena exists", func() {
			sc := newScene(nil)
			sc.SetGravity(vec.Vec2{X: -1, Y: 0}, 10)
			_, err := sc.Resize(640, 480)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5; i++ {
				Expect(sc.Update()).To(Succeed())
			}
			st, _ := sc.Stats()
			Expect(st.PeakSpeed).To(BeNumerically(">", 0))
		})
	})

	It("serves readers while the simulation runs", func() {
		sc := newScene(nil)
		_, err := sc.Resize(640, 480)
		Expect(err).NotTo(HaveOccurred())
		sc.SetGravity(vec.Vec2{X: 1, Y: 1}, 5)

		done := make(chan struct{})
		var wg sync.WaitGroup
		for r := 0; r < 4; r++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for {
					select {
					case <-done:
						return
					default:
					}
					Expect(sc.Sprites()).To(HaveLen(arena.BallCount))
					Expect(sc.BallCount()).To(Equal(arena.BallCount))
				}
			}()
		}

		sizes := [][2]int{{640, 480}, {800, 480}, {480, 800}, {1024, 600}}
		for i := 0; i < 100; i++ {
			Expect(sc.Update()).To(Succeed())
			sc.Touch(vec.Vec2{X: 200, Y: 200})
			if i%25 == 0 {
				sz := sizes[(i/25)%len(sizes)]
				_, err := sc.Resize(sz[0], sz[1])
				Expect(err).NotTo(HaveOccurred())
				sc.SetRotation(orient.Rotations[(i/25)%4])
			}
		}
		close(done)
		wg.Wait()
	})
})

var _ = Describe("Recreate", func() {
	onScreen := func(sc *scene.Scene) {
		w, h := sc.Mapper().ScreenSize()
		sprites := sc.Sprites()
		Expect(sprites).To(HaveLen(arena.BallCount))
		for _, s := range sprites {
			Expect(s.Position.X).To(BeNumerically(">=", 0))
			Expect(s.Position.X).To(BeNumerically("<=", w))
			Expect(s.Position.Y).To(BeNumerically(">=", 0))
			Expect(s.Position.Y).To(BeNumerically("<=", h))
		}
	}

	DescribeTable("keeps every sprite on screen",
		func(r orient.Rotation) {
			sc := newScene(func(o *scene.Options) { o.Rotation = r })
			rebuilt, err := sc.Recreate(16, 12, 0.1)
			Expect(err).NotTo(HaveOccurred())
			Expect(rebuilt).To(BeTrue())

			m := sc.Mapper()
			Expect(m.Long).To(Equal(16 * m.Scale))
			Expect(m.Short).To(Equal(12 * m.Scale))
			onScreen(sc)
		},
		Entry("0°", orient.Rotation0),
		Entry("90°", orient.Rotation90),
		Entry("180°", orient.Rotation180),
		Entry("270°", orient.Rotation270),
	)

	It("replaces the layout left by a resize", func() {
		sc := newScene(nil)
		_, err := sc.Resize(640, 480)
		Expect(err).NotTo(HaveOccurred())

		_, err = sc.Recreate(12, 20, 0.1)
		Expect(err).NotTo(HaveOccurred())
		m := sc.Mapper()
		Expect(m.Long).To(Equal(20 * m.Scale))
		Expect(m.Short).To(Equal(12 * m.Scale))
		onScreen(sc)
	})

	It("keeps the layout when the arguments are rejected", func() {
		sc := newScene(nil)
		_, err := sc.Resize(640, 480)
		Expect(err).NotTo(HaveOccurred())

		_, err = sc.Recreate(-1, 12, 0.1)
		Expect(err).To(MatchError(arena.ErrInvalidArena))
		m := sc.Mapper()
		Expect(m.Long).To(Equal(640.0))
		Expect(m.Short).To(Equal(480.0))
	})
})
