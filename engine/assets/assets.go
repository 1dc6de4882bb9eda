package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/stlpose/engine/assets/loaders"
	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

// debounce coalesces the burst of events a single save usually produces.
const debounce = 100 * time.Millisecond

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
}

type AssetManager struct {
	assets  map[string]AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex
}

func NewAssetManager() *AssetManager {
	return &AssetManager{
		assets:  make(map[string]AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
	}
}

func (am *AssetManager) Initialize() error {
	// Register loaders
	am.registerLoader(metadata.ResourceTypeMesh, &loaders.STLLoader{})
	return nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

// LoadAsset loads path with the loader registered for its extension.
func (am *AssetManager) LoadAsset(path string) (*metadata.Resource, error) {
	assetType := determineAssetType(path)
	if assetType == metadata.ResourceTypeNone {
		return nil, fmt.Errorf("%s: %w", path, core.ErrUnknownAssetType)
	}

	am.mutex.RLock()
	loader, loaderExists := am.loaders[assetType]
	am.mutex.RUnlock()
	if !loaderExists {
		return nil, fmt.Errorf("no loader registered for asset type: %d", assetType)
	}

	res, err := loader.Load(path)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	am.assets[filepath.Clean(path)] = AssetInfo{
		Path:       path,
		Type:       assetType,
		LastLoaded: time.Now(),
	}
	am.mutex.Unlock()
	return res, nil
}

// LoadMesh loads a mesh asset and unwraps the decoded geometry.
func (am *AssetManager) LoadMesh(path string) (*metadata.TriangleMesh, error) {
	res, err := am.LoadAsset(path)
	if err != nil {
		return nil, err
	}
	mesh, ok := res.Data.(*metadata.TriangleMesh)
	if !ok {
		return nil, fmt.Errorf("asset %s is not a mesh", path)
	}
	return mesh, nil
}

// Info returns what is known about a previously loaded asset.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[filepath.Clean(path)]
	return info, ok
}

// AssetWatcher reports changes to a single asset file.
type AssetWatcher struct {
	path     string
	fsnotify *fsnotify.Watcher
}

// Watch starts watching path. The parent directory is watched rather than
// the file itself so that editors replacing the file through a rename are
// still noticed. The watch is active when Watch returns.
func (am *AssetManager) Watch(path string) (*AssetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}
	return &AssetWatcher{path: abs, fsnotify: fsWatch}, nil
}

// Run calls onChange after each create or write of the watched file, until
// ctx is cancelled. It closes the underlying watcher before returning.
func (aw *AssetWatcher) Run(ctx context.Context, onChange func(path string)) error {
	defer aw.fsnotify.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case e, ok := <-aw.fsnotify.Events:
			if !ok {
				return nil
			}
			if !aw.matches(e.Name) || e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange(aw.path)

		case err, ok := <-aw.fsnotify.Errors:
			if !ok {
				return nil
			}
			core.LogError(err.Error())

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		}
	}
}

func (aw *AssetWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == aw.path
}

func determineAssetType(path string) metadata.ResourceType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return metadata.ResourceTypeMesh
	default:
		return metadata.ResourceTypeNone
	}
}
