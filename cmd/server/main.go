package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/liuyinglao/DeepLabV3Example/internal/config"
	"github.com/liuyinglao/DeepLabV3Example/internal/handlers"
	"github.com/liuyinglao/DeepLabV3Example/internal/imageset"
	"github.com/liuyinglao/DeepLabV3Example/internal/model"
	"github.com/liuyinglao/DeepLabV3Example/internal/orchestrator"
	"github.com/liuyinglao/DeepLabV3Example/internal/overlay"
)

func initLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

func main() {
	log := initLogger()
	cfg := config.FromEnv()

	md, err := model.LoadMetadata(cfg.MetadataPath)
	if err != nil {
		log.Fatalf("Failed to load model metadata: %v", err)
	}

	// The palette and the model's label ordering are a single configuration
	// pair; a size mismatch is fatal before the server comes up.
	palette := overlay.DefaultPalette()
	if err := palette.Validate(md.NumClasses()); err != nil {
		log.Fatalf("Palette configuration: %v", err)
	}

	provider := model.NewProvider(md, log)
	go provider.Load(context.Background(), cfg.ModelURL, cfg.CacheDir)
	defer provider.Close()

	loader := imageset.NewLoader(md.ImageSize, log)
	canvas := overlay.NewCanvas(int(cfg.CanvasWidth), int(cfg.CanvasHeight))
	box := overlay.Box{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}

	orch, err := orchestrator.New(provider, loader, canvas, palette, box, cfg.Samples, log)
	if err != nil {
		log.Fatalf("Failed to build orchestrator: %v", err)
	}

	handler := handlers.NewHandler(orch, log)

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, "static/index.html")
	})
	http.HandleFunc("/health", handler.Health)
	http.HandleFunc("/state", handler.State)
	http.HandleFunc("/select/next", handler.Next)
	http.HandleFunc("/select/prev", handler.Prev)
	http.HandleFunc("/segment", handler.Segment)

	log.Infof("Server starting on port %s", cfg.Port)
	log.Infof("Model: %s (%d classes, input %dx%d)", cfg.ModelURL, md.NumClasses(), md.ImageSize, md.ImageSize)
	log.Infof("Samples: %d images", len(cfg.Samples))

	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
