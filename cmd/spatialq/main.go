// Command spatialq loads a scene, runs its queries and prints the results.
//
//	spatialq -scene world.yaml [-config pipeline.yaml] [-watch]
//
// With -watch the scene is reloaded and its queries re-run whenever a
// YAML or Tengo file next to it (or next to the config) changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spatialq/spatialq"
	"github.com/spatialq/spatialq/scene"
)

func main() {
	scenePath := flag.String("scene", "", "scene YAML file")
	configPath := flag.String("config", "", "pipeline YAML config, overrides the scene's pipeline section")
	watch := flag.Bool("watch", false, "re-run the queries when the scene, config or scripts change")
	verbose := flag.Bool("v", false, "log predicate and visitor failures")
	flag.Parse()

	if *scenePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*scenePath, *configPath, *verbose); err != nil {
		if !*watch {
			log.Fatal(err)
		}
		log.Println(err)
	}
	if !*watch {
		return
	}

	dirs := []string{filepath.Dir(*scenePath)}
	if *configPath != "" && filepath.Dir(*configPath) != dirs[0] {
		dirs = append(dirs, filepath.Dir(*configPath))
	}
	w, err := scene.NewWatcher(dirs...)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	log.Println("watching", dirs)
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			log.Println("changed:", path)
			if err := run(*scenePath, *configPath, *verbose); err != nil {
				log.Println(err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Println("watch:", err)
		}
	}
}

func run(scenePath, configPath string, verbose bool) error {
	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	if configPath != "" {
		config, err := spatialq.LoadConfig(configPath)
		if err != nil {
			return err
		}
		s.Pipeline = config
	}

	world, err := s.Build()
	if err != nil {
		return err
	}
	pipeline := world.NewPipeline()
	if verbose {
		pipeline.SetLogger(log.New(os.Stderr, "spatialq: ", log.LstdFlags))
	}
	fmt.Printf("# %s: %d bodies, %d colliders\n", scenePath, world.Bodies.Len(), world.Colliders.Len())
	return world.Run(pipeline, os.Stdout)
}
