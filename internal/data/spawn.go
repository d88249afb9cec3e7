package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SpawnEntry describes a batch of objects created by the spawn system.
type SpawnEntry struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`   // counter, lifetime, lua
	Script    string `yaml:"script"` // Lua global called each tick (kind: lua)
	Count     int    `yaml:"count"`
	TTLMs     int    `yaml:"ttl_ms"`     // lifetime of each object, 0 = forever
	RespawnMs int    `yaml:"respawn_ms"` // re-spawn interval, 0 = spawn once
}

func (e *SpawnEntry) TTL() time.Duration { return time.Duration(e.TTLMs) * time.Millisecond }

func (e *SpawnEntry) RespawnDelay() time.Duration {
	return time.Duration(e.RespawnMs) * time.Millisecond
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	for i := range f.Spawns {
		e := &f.Spawns[i]
		if e.Kind == "" {
			return nil, fmt.Errorf("spawn_list entry %d: kind is required", i)
		}
		if e.Count < 0 || e.TTLMs < 0 || e.RespawnMs < 0 {
			return nil, fmt.Errorf("spawn_list entry %d (%s): negative count or duration", i, e.Kind)
		}
		if e.Name == "" {
			e.Name = fmt.Sprintf("%s-%d", e.Kind, i)
		}
	}
	return f.Spawns, nil
}
