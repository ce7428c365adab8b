package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"path"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"wallplay/src/engine"
	"wallplay/src/handler/web"
	"wallplay/src/storage"
	"wallplay/src/surface"
)

const confFile = "config.yaml"

var (
	build       = "%BUILD%"
	version     = "%VERSION%"
	versionDate = "%VERSION_DATE%"
)

type config struct {
	Address string `yaml:"bind"`

	StorageDir string `yaml:"storage_dir"`

	// ImageDuration is how long an image entry stays on screen during
	// playlist playback, in seconds.
	ImageDuration float64 `yaml:"image_duration"`
}

func (conf *config) Validate() (errs []error) {
	if conf.Address == "" {
		errs = append(errs, fmt.Errorf("config: `bind` is required"))
	}
	if conf.StorageDir == "" {
		errs = append(errs, fmt.Errorf("config: `storage_dir` is required"))
	}
	if conf.ImageDuration < 0 {
		errs = append(errs, fmt.Errorf("config: `image_duration` may not be negative"))
	}
	return
}

func LoadConfig(filename string) (*config, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	d := yaml.NewDecoder(fd)
	d.KnownFields(true)
	var conf config
	if err := d.Decode(&conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func main() {
	defaultLogLevel := "warn"
	if build == "debug" {
		defaultLogLevel = "debug"
	}

	configFile := flag.String("conf", confFile, "Path to the configuration file")
	printVersion := flag.Bool("version", false, "Print version information and exit")
	logLevel := flag.String("log", defaultLogLevel, "Sets the log level. [debug, info, warn, error]")
	flag.Parse()

	if ll, err := log.ParseLevel(*logLevel); err != nil {
		log.Fatalf("Could not parse log level: %v", err)
	} else {
		log.SetLevel(ll)
	}
	log.SetReportCaller(true)

	if *printVersion {
		fmt.Printf("Version: %v (%v)\n", version, versionDate)
		fmt.Printf("Build: %v\n", build)
		return
	}

	log.Infof("Version: %v (%v)\n", version, build)
	config, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}
	if errs := config.Validate(); len(errs) > 0 {
		log.Fatalf("Could not load config: %v", errs)
	}

	storeDir := strings.Replace(config.StorageDir, "~", os.Getenv("HOME"), 1)
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		log.Fatalf("Unable to create storage dir: %v", err)
	}
	log.Infof("Using %q for storage", storeDir)

	store, err := storage.Open(path.Join(storeDir, "state.db"))
	if err != nil {
		log.Fatalf("Unable to open state database: %v", err)
	}
	defer store.Close()

	display := surface.NewRemote()
	eng := engine.New(display)
	if config.ImageDuration > 0 {
		eng.SetImageDuration(time.Duration(config.ImageDuration * float64(time.Second)))
	}

	if snapshot, found, err := store.Load(); err != nil {
		log.Fatalf("Unable to load state: %v", err)
	} else if found {
		eng.Restore(snapshot)
		log.Infof("Restored %d media entries", len(snapshot.Media))
	}

	go autosave(eng, store)

	service := web.New(build, eng, display)

	if build == "debug" {
		service.Get("/debug/pprof/*", pprof.Index)
	}
	log.Infof("Now accepting HTTP connections on %v", config.Address)
	server := &http.Server{
		Addr:           config.Address,
		Handler:        service,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	log.Fatalf("Error running webserver: %v", server.ListenAndServe())
}

// autosave persists a fresh snapshot whenever the library or the playlist
// changes. Saves are debounced so a burst of mutations, such as a bulk
// import, hits the disk only once.
func autosave(eng *engine.Engine, store *storage.Store) {
	const debounce = time.Second

	listener := eng.Events().Listen(context.Background())
	var timer *time.Timer
	for event := range listener {
		switch event.(type) {
		case engine.LibraryEvent, engine.PlaylistEvent:
		default:
			continue
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			if err := store.Save(eng.Snapshot()); err != nil {
				log.Errorf("Could not persist state: %v", err)
			}
		})
	}
}
