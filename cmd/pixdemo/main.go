// Command pixdemo renders a demo frame with the pix drawing core on the
// software device and saves it as a PNG.
package main

import (
	"flag"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
	"github.com/gogpu/pix/recording"
	"github.com/gogpu/pix/software"
	"github.com/gogpu/pix/text"
)

func main() {
	var (
		width   = flag.Int("width", 640, "image width")
		height  = flag.Int("height", 480, "image height")
		output  = flag.String("output", "demo.png", "output file")
		trace   = flag.String("trace", "", "write one line per device call to this file")
		fontPth = flag.String("font", "", "TrueType font for the text demo (default Go Mono)")
		outline = flag.Bool("outline", false, "rasterize glyphs from outlines instead of x/image/font")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		pix.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	soft := software.New(*width, *height)
	var dev pix.Device = soft
	if *trace != "" {
		rec, err := recording.NewFileRecorder(soft, *trace)
		if err != nil {
			log.Fatalf("Failed to open trace: %v", err)
		}
		defer func() {
			if err := rec.Close(); err != nil {
				log.Printf("Failed to close trace: %v", err)
			}
		}()
		dev = rec
	}

	screen, err := pix.NewScreen(dev, gpucontext.NullWindowProvider{W: *width, H: *height, SF: 1})
	if err != nil {
		log.Fatalf("Failed to create screen: %v", err)
	}

	if err := drawBackground(screen); err != nil {
		log.Fatalf("Background: %v", err)
	}
	tiles, err := screen.Split(float32(*width)/2, float32(*height)/2)
	if err != nil {
		log.Fatalf("Split: %v", err)
	}
	demos := []func(*pix.Surface) error{drawShapes, drawPolygons, drawPixels}
	for i, demo := range demos {
		if i >= len(tiles) {
			break
		}
		if err := demo(tiles[i]); err != nil {
			log.Fatalf("Demo %d: %v", i, err)
		}
	}
	if len(tiles) > 3 {
		ttf := gomono.TTF
		if *fontPth != "" {
			if ttf, err = os.ReadFile(*fontPth); err != nil {
				log.Fatalf("Failed to read font: %v", err)
			}
		}
		if err := drawText(soft, tiles[3], ttf, *outline); err != nil {
			log.Fatalf("Text: %v", err)
		}
	}
	if err := screen.Flush(); err != nil {
		log.Fatalf("Flush: %v", err)
	}

	if err := software.SavePNG(soft.Screen(), *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d, %d submissions)\n", *output, *width, *height, soft.Submits())
}

func drawBackground(s *pix.Surface) error {
	if err := s.Clear(pix.Hex("#1a2238")); err != nil {
		return err
	}
	size := s.Size()
	const steps = 32
	for i := range steps {
		t := float32(i) / steps
		s.SetColor(pix.RGB(0.1+t*0.3, 0.13+t*0.2, 0.22+t*0.2))
		y := size.Y * t
		if err := s.FilledRect(geom.V(0, y), geom.V(size.X, size.Y/steps+1)); err != nil {
			return err
		}
	}
	return nil
}

func drawShapes(s *pix.Surface) error {
	size := s.Size()
	c := size.Div(2)
	s.SetBlendMode(pix.BlendNormal)

	circles := []struct {
		off   geom.Vec2
		color pix.RGBA
	}{
		{geom.V(-25, -10), pix.RGBA2(1, 0.3, 0.3, 0.8)},
		{geom.V(25, -10), pix.RGBA2(0.3, 1, 0.3, 0.8)},
		{geom.V(0, 25), pix.RGBA2(0.3, 0.3, 1, 0.8)},
	}
	for _, cc := range circles {
		s.SetColor(cc.color)
		if err := s.FilledCircle(c.Add(cc.off), 45); err != nil {
			return err
		}
	}

	s.SetColor(pix.White)
	s.SetLineWidth(3)
	if err := s.Rect(geom.V(10, 10), size.Sub(geom.V(20, 20))); err != nil {
		return err
	}
	s.SetColor(pix.Hex("#ffcc00"))
	if err := s.Circle(c, 90); err != nil {
		return err
	}
	s.SetLineWidth(1)
	return nil
}

func drawPolygons(s *pix.Surface) error {
	size := s.Size()
	c := size.Div(2)

	star := make([]geom.Vec2, 0, 10)
	for i := range 10 {
		r := float32(80)
		if i%2 == 1 {
			r = 35
		}
		a := float64(i)*math.Pi/5 - math.Pi/2
		star = append(star, c.Add(geom.V(r*float32(math.Cos(a)), r*float32(math.Sin(a)))))
	}
	s.SetColor(pix.Hex("#ffd700"))
	if err := s.Polygon(star, false); err != nil {
		return err
	}

	frame := [][]geom.Vec2{
		{geom.V(10, 10), geom.V(60, 10), geom.V(60, 60), geom.V(10, 60)},
		{geom.V(25, 25), geom.V(45, 25), geom.V(45, 45), geom.V(25, 45)},
	}
	s.SetColor(pix.Hex("#ff6b6b"))
	if err := s.ComplexPolygon(frame); err != nil {
		return err
	}

	s.SetColor(pix.Hex("#4ecdc4"))
	s.SetLineWidth(4)
	if err := s.RoundedLine(geom.V(20, size.Y-30), 6, geom.V(size.X-20, size.Y-50), 2); err != nil {
		return err
	}
	s.SetLineWidth(1)
	return nil
}

func drawPixels(s *pix.Surface) error {
	size := s.Size()
	for x := float32(0); x < size.X; x += 2 {
		y := size.Y/2 + float32(math.Sin(float64(x)/12))*size.Y/4
		if err := s.Plot(geom.V(x, y), pix.RGB(x/size.X, 1-x/size.X, 0.6)); err != nil {
			return err
		}
	}
	s.SetColor(pix.White)
	if err := s.Rect(geom.V(20, 20), geom.V(40, 30)); err != nil {
		return err
	}
	if err := s.FloodFill(30, 30, pix.Hex("#6a4c93")); err != nil {
		return err
	}
	return s.Flush()
}

func drawText(dev *software.Device, s *pix.Surface, ttf []byte, outline bool) error {
	var (
		raster text.Rasterizer
		err    error
	)
	if outline {
		raster, err = text.NewOutlineRasterizer(ttf)
	} else {
		raster, err = text.NewOpenTypeRasterizer(ttf)
	}
	if err != nil {
		return err
	}
	tex, err := dev.NewTextureFromRGBA(256, 256, make([]byte, 256*256*4))
	if err != nil {
		return err
	}
	ts, err := text.NewTileSet(tex, raster, 14)
	if err != nil {
		return err
	}

	tw, th := ts.TileSize()
	size := s.Size()
	grid, err := text.NewGrid(ts, int(size.X)/tw, int(size.Y)/th)
	if err != nil {
		return err
	}
	if _, _, err := grid.Print(1, 1, "pix demo\n", pix.Hex("#ffcc00"), pix.Transparent); err != nil {
		return err
	}
	if _, _, err := grid.Print(1, 3, "immediate-mode 2D drawing on any device", pix.White, pix.RGBA2(0, 0, 0, 0.5)); err != nil {
		return err
	}
	return grid.Render(s, geom.Vec2{})
}
