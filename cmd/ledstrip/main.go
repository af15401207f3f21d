package main

import (
	"flag"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/tiko09/rpi5-ws2812-rgbw/internal/config"
	"github.com/tiko09/rpi5-ws2812-rgbw/internal/control"
	"github.com/tiko09/rpi5-ws2812-rgbw/model"
	"github.com/tiko09/rpi5-ws2812-rgbw/preview"
	"github.com/tiko09/rpi5-ws2812-rgbw/ws2812"
)

// settings are the effective parameters after the config file overlays the
// flags.
type settings struct {
	Bus        int
	Device     int
	Leds       int
	RGBW       bool
	Brightness float64
	FPS        int
	Driver     string
	Addr       string
}

// merge overlays the config file's set (non-zero) fields onto the flag
// values; unset fields leave the flags alone.
func merge(s settings, cfg *config.Config) settings {
	if cfg == nil {
		return s
	}
	if cfg.LedCount > 0 {
		s.Leds = cfg.LedCount
	}
	if cfg.Brightness > 0 {
		s.Brightness = cfg.Brightness
	}
	if cfg.FPS > 0 {
		s.FPS = cfg.FPS
	}
	if cfg.Driver != "" {
		s.Driver = cfg.Driver
	}
	if cfg.Addr != "" {
		s.Addr = cfg.Addr
	}
	if cfg.RGBW {
		s.RGBW = true
	}
	if cfg.SPI.Bus != 0 {
		s.Bus = cfg.SPI.Bus
	}
	if cfg.SPI.Device != 0 {
		s.Device = cfg.SPI.Device
	}
	return s
}

func main() {
	var (
		bus        = flag.Int("bus", 0, "SPI bus number")
		device     = flag.Int("device", 0, "SPI device number")
		leds       = flag.Int("leds", 30, "number of LEDs on the strip")
		rgbw       = flag.Bool("rgbw", false, "strip has a white channel (SK6812-RGBW)")
		brightness = flag.Float64("brightness", 0.8, "global brightness 0..1")
		fps        = flag.Int("fps", 30, "demo frames per second")
		driver     = flag.String("driver", "spi", "driver: spi | nrz | preview")
		addr       = flag.String("addr", "", "control server listen address (empty disables)")
		configPath = flag.String("config", "", "path to config.yaml (optional)")
		demo       = flag.Bool("demo", true, "run the color wheel demo loop")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	var cfg *config.Config
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
		} else {
			cfg = c
		}
	}

	eff := merge(settings{
		Bus:        *bus,
		Device:     *device,
		Leds:       *leds,
		RGBW:       *rgbw,
		Brightness: *brightness,
		FPS:        *fps,
		Driver:     *driver,
		Addr:       *addr,
	}, cfg)

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}

	var drv model.StripDriver
	switch eff.Driver {
	case "spi":
		d, err := ws2812.New(eff.Bus, eff.Device, eff.Leds, eff.RGBW)
		if err != nil {
			log.Warn().Err(err).Int("bus", eff.Bus).Int("device", eff.Device).
				Msg("SPI init failed; falling back to terminal preview")
			drv = preview.New(eff.Leds, eff.RGBW)
		} else {
			defer d.Close()
			drv = d
		}
	case "nrz":
		p, err := spireg.Open(fmt.Sprintf("SPI%d.%d", eff.Bus, eff.Device))
		if err != nil {
			log.Warn().Err(err).Msg("SPI port open failed; falling back to terminal preview")
			drv = preview.New(eff.Leds, eff.RGBW)
			break
		}
		d, err := ws2812.NewNRZ(p, eff.Leds, eff.RGBW)
		if err != nil {
			log.Warn().Err(err).Msg("nrzled init failed; falling back to terminal preview")
			_ = p.Close()
			drv = preview.New(eff.Leds, eff.RGBW)
			break
		}
		defer p.Close()
		drv = d
	case "preview":
		drv = preview.New(eff.Leds, eff.RGBW)
	default:
		log.Warn().Str("driver", eff.Driver).Msg("unknown driver; using terminal preview")
		drv = preview.New(eff.Leds, eff.RGBW)
	}

	strip := model.NewStrip(drv, eff.RGBW)
	strip.SetBrightness(eff.Brightness)

	// All strip writers go through the control state's lock, whether or not
	// the websocket endpoint is listening; the strip itself does no locking.
	st := control.NewState(strip)
	defer func() {
		err := st.WithStrip(func(s *model.Strip) error { return s.Clear() })
		if err != nil {
			log.Warn().Err(err).Msg("clear on shutdown failed")
		}
	}()
	log.Info().Str("driver", eff.Driver).Int("leds", eff.Leds).Bool("rgbw", eff.RGBW).Msg("strip ready")

	if eff.Addr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/control", st.HandleControlWS)
		mux.HandleFunc("/health", st.HandleHealth)
		go func() {
			log.Info().Str("addr", eff.Addr).Msg("control server starting")
			if err := http.ListenAndServe(eff.Addr, mux); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("control server crashed")
			}
		}()
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	if !*demo {
		s := <-ch
		log.Info().Str("signal", s.String()).Msg("shutting down")
		return
	}

	ticker := time.NewTicker(time.Second / time.Duration(max(1, eff.FPS)))
	defer ticker.Stop()
	start := time.Now()
	for {
		select {
		case <-ticker.C:
			phase := math.Mod(time.Since(start).Seconds()/8, 1.0)
			err := st.WithStrip(func(s *model.Strip) error {
				for i := 0; i < s.NumPixels(); i++ {
					h := math.Mod(phase+float64(i)/float64(s.NumPixels()), 1.0)
					if err := s.SetPixel(i, scale(colorWheel(h), s.Brightness())); err != nil {
						return err
					}
				}
				return s.Show()
			})
			if err != nil {
				log.Error().Err(err).Msg("show failed")
			}
		case s := <-ch:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			return
		}
	}
}

// scale applies the brightness hint before pixels enter the buffer; the
// output path itself is brightness-neutral.
func scale(c model.Color, b float64) model.Color {
	return model.Color{
		R: uint8(float64(c.R) * b),
		G: uint8(float64(c.G) * b),
		B: uint8(float64(c.B) * b),
		W: uint8(float64(c.W) * b),
	}
}

func colorWheel(h float64) model.Color {
	h *= 6
	switch {
	case h < 1.:
		return model.Color{R: 255, G: uint8(255 * h)}
	case h < 2.:
		return model.Color{R: uint8(255 * (2 - h)), G: 255}
	case h < 3.:
		return model.Color{G: 255, B: uint8(255 * (h - 2))}
	case h < 4.:
		return model.Color{G: uint8(255 * (4 - h)), B: 255}
	case h < 5.:
		return model.Color{R: uint8(255 * (h - 4)), B: 255}
	default:
		return model.Color{R: 255, B: uint8(255 * (6 - h))}
	}
}
