package entity

import (
	"fmt"
	"path/filepath"

	"github.com/milk9111/rigidsync/ecs"
	"github.com/milk9111/rigidsync/prefabs"
)

// Scene is the set of entities built from a scene prefab.
type Scene struct {
	Name string
	// Config names the physics config prefab, if the scene sets one.
	Config   string
	Models   map[string]ecs.Entity
	Entities []ecs.Entity

	modelFiles map[string]ecs.Entity
}

// BuildScene creates every model and entity listed by a scene prefab. On
// error nothing built so far is left in the world.
func BuildScene(w *ecs.World, prefabPath string) (*Scene, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}
	spec, err := prefabs.LoadSceneSpec(prefabPath)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	s := &Scene{
		Name:       spec.Name,
		Config:     spec.Config,
		Models:     make(map[string]ecs.Entity, len(spec.Models)),
		modelFiles: make(map[string]ecs.Entity, len(spec.Models)),
	}

	for _, file := range spec.Models {
		e, name, err := BuildModel(w, file)
		if err != nil {
			s.Destroy(w)
			return nil, fmt.Errorf("build scene: %q: %w", prefabPath, err)
		}
		if _, dup := s.Models[name]; dup {
			ecs.DestroyEntity(w, e)
			s.Destroy(w)
			return nil, fmt.Errorf("build scene: %q: duplicate model %q", prefabPath, name)
		}
		s.Models[name] = e
		s.modelFiles[filepath.Base(file)] = e
	}

	for i, es := range spec.Entities {
		merged, err := mergeEntitySpec(es)
		if err != nil {
			s.Destroy(w)
			return nil, fmt.Errorf("build scene: %q: entity %d: %w", prefabPath, i, err)
		}
		e, err := buildFromSpec(w, merged, &buildContext{PrefabPath: prefabPath, Models: s.Models})
		if err != nil {
			s.Destroy(w)
			return nil, fmt.Errorf("build scene: entity %d: %w", i, err)
		}
		s.Entities = append(s.Entities, e)
	}

	return s, nil
}

func mergeEntitySpec(es prefabs.SceneEntitySpec) (entityPrefabSpec, error) {
	if es.Prefab == "" {
		return es.EntityBuildSpec, nil
	}
	base, err := prefabs.LoadEntityBuildSpec(es.Prefab)
	if err != nil {
		return entityPrefabSpec{}, err
	}
	merged := entityPrefabSpec{
		Name:       base.Name,
		Components: make(map[string]any, len(base.Components)+len(es.Components)),
	}
	if es.Name != "" {
		merged.Name = es.Name
	}
	for k, v := range base.Components {
		merged.Components[k] = v
	}
	for k, v := range es.Components {
		merged.Components[k] = v
	}
	return merged, nil
}

// Reload re-reads the model prefab at path if it belongs to the scene. It
// reports whether a model was reloaded.
func (s *Scene) Reload(w *ecs.World, path string) (bool, error) {
	base := filepath.Base(path)
	e, ok := s.modelFiles[base]
	if !ok {
		return false, nil
	}
	if err := ReloadModel(w, e, base); err != nil {
		return false, err
	}
	return true, nil
}

// Destroy removes every entity and model of the scene from w.
func (s *Scene) Destroy(w *ecs.World) {
	for _, e := range s.Entities {
		ecs.DestroyEntity(w, e)
	}
	for _, e := range s.Models {
		ecs.DestroyEntity(w, e)
	}
	s.Entities = nil
	s.Models = map[string]ecs.Entity{}
	s.modelFiles = map[string]ecs.Entity{}
}
