package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/parikrama/internal/associate"
	"github.com/ayusman/parikrama/internal/engine"
	"github.com/ayusman/parikrama/internal/frame"
	"github.com/ayusman/parikrama/internal/run"
	"github.com/ayusman/parikrama/internal/server"
	"github.com/ayusman/parikrama/internal/store"
)

func main() {
	trajectoryPath := flag.String("trajectory", run.DefaultTrajectoryPath, "output path for the full-frame trajectory")
	keyframePath := flag.String("keyframe-trajectory", run.DefaultKeyframeTrajectoryPath, "output path for the keyframe trajectory")
	listen := flag.String("listen", "", "address for the HTTP monitor, e.g. :8080 (disabled when empty)")
	dbPath := flag.String("db", "", "path to the run log database (disabled when empty)")
	stride := flag.Int("keyframe-stride", engine.DefaultKeyframeStride, "keyframe sampling stride of the built-in recorder engine")
	flag.Parse()

	args := flag.Args()
	if len(args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: parikrama [flags] path_to_vocabulary path_to_settings path_to_sequence path_to_association")
		os.Exit(1)
	}
	vocabulary, settings, sequenceDir, associationFile := args[0], args[1], args[2], args[3]

	fmt.Println("Parikrama - RGB-D Sequence Feed Harness")

	// All fatal conditions are checked here, before any worker is spawned.
	manifest, err := associate.Load(associationFile, sequenceDir)
	if err != nil {
		log.Fatalf("Failed to load associations: %v", err)
	}

	source, err := frame.NewSource(manifest, nil)
	if err != nil {
		log.Fatalf("Failed to open frame source: %v", err)
	}

	// No SLAM backend is linked into this build; the recorder engine
	// stands in for one and keeps the full lifecycle exercised.
	log.Println("Using built-in recorder engine")
	session := engine.NewSession(engine.NewRecorder(vocabulary, settings, *stride))
	state := run.NewState()

	cfg := run.Config{
		Session:                session,
		Source:                 source,
		State:                  state,
		TrajectoryPath:         *trajectoryPath,
		KeyframeTrajectoryPath: *keyframePath,
	}

	var st *store.Store
	var runRecord *store.Run
	if *dbPath != "" {
		st, err = store.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize run log: %v", err)
		}
		defer st.Close()

		runRecord = &store.Run{
			Vocabulary:      vocabulary,
			Settings:        settings,
			SequenceDir:     sequenceDir,
			AssociationFile: associationFile,
			FramesTotal:     int64(source.Len()),
		}
		if err := st.Runs().Create(runRecord); err != nil {
			log.Fatalf("Failed to record run: %v", err)
		}
		cfg.FrameLog = st.Runs().Recorder(runRecord.ID)
		log.Printf("Logging run %s to %s", runRecord.ID, *dbPath)
	}

	if *listen != "" {
		srv := server.New(server.Config{State: state, Store: st})
		go func() {
			if err := srv.ListenAndServe(*listen); err != nil {
				log.Printf("Monitor server failed: %v", err)
			}
		}()
		log.Printf("Monitor listening on %s", *listen)
	}

	// First interrupt requests an orderly abort; a second one falls
	// back to the default handler and kills the process.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Interrupt received, stopping after the frame in flight")
		state.RequestAbort()
		signal.Stop(sigCh)
	}()

	harness, err := run.New(cfg)
	if err != nil {
		log.Fatalf("Failed to configure run: %v", err)
	}

	fmt.Printf("Processing %d frames from %s\n", source.Len(), sequenceDir)
	outcome := harness.Run()
	log.Printf("Run finished: %s (%d/%d frames)", outcome, state.FramesIngested(), state.TotalFrames())

	if st != nil {
		if err := st.Runs().Finish(runRecord.ID, state.FramesIngested(), string(outcome)); err != nil {
			log.Printf("Failed to finalize run record: %v", err)
		}
	}
}
