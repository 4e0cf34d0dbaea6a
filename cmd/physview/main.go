package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rigidsync/common"
	"github.com/pkg/profile"
)

func main() {
	backendName := flag.String("backend", "sim", "physics backend: sim (3D reference) or cp (planar chipmunk)")
	sceneName := flag.String("scene", "scene_demo.yaml", "scene prefab to load")
	configName := flag.String("config", "", "physics config prefab (defaults to the scene's config)")
	debug := flag.Bool("debug", true, "draw collider wireframes")
	watch := flag.Bool("watch", false, "hot reload model prefabs from disk")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("physview: unknown profile mode %q", *profileMode)
	}

	game, err := NewGame(Options{
		Backend: *backendName,
		Scene:   *sceneName,
		Config:  *configName,
		Debug:   *debug,
		Watch:   *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("physview")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
