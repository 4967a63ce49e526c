// Package container reads .lottie bundles: zip archives carrying a
// manifest, animation documents, themes, state machines, images, and
// fonts. Version 2 containers use single-letter prefixes (a/, i/, t/, s/,
// f/); version 1 uses animations/ and images/.
package container

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const dataImagePrefix = "data:image/"

// Reader provides access to the contents of one .lottie container. It is
// created over an in-memory byte slice and owns nothing beyond it.
type Reader struct {
	archive           *zip.Reader
	manifest          *Manifest
	version           int
	activeAnimationID string
}

// Open parses a .lottie byte slice: the zip directory, the manifest, and
// the initial animation id (the manifest's initial.animation, falling back
// to the first animation entry).
func Open(data []byte) (*Reader, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveOpen, err)
	}

	manifestData, err := readFile(archive, "manifest.json")
	if err != nil {
		return nil, ErrMissingManifest
	}
	manifest, err := ParseManifest(manifestData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadContent, err)
	}

	id := ""
	if manifest.Initial != nil && manifest.Initial.Animation != "" {
		id = manifest.Initial.Animation
	} else if len(manifest.Animations) > 0 {
		id = manifest.Animations[0].ID
	}
	if id == "" {
		return nil, ErrAnimationNotFound
	}

	version := 1
	if manifest.Version == "2" {
		version = 2
	}

	return &Reader{
		archive:           archive,
		manifest:          manifest,
		version:           version,
		activeAnimationID: id,
	}, nil
}

// Manifest returns the parsed manifest.
func (r *Reader) Manifest() *Manifest {
	return r.manifest
}

// ActiveAnimationID returns the initial animation id resolved at open.
func (r *Reader) ActiveAnimationID() string {
	return r.activeAnimationID
}

// Version returns the container layout version (1 or 2).
func (r *Reader) Version() int {
	return r.version
}

func (r *Reader) animationPrefix() string {
	if r.version == 2 {
		return "a/"
	}
	return "animations/"
}

func (r *Reader) imagePrefix() string {
	if r.version == 2 {
		return "i/"
	}
	return "images/"
}

// Animation locates and returns the animation document, with every image
// asset inlined as a data URL (embedded assets are only re-flagged).
func (r *Reader) Animation(animationID string) (string, error) {
	prefix := r.animationPrefix()

	data, err := readFile(r.archive, prefix+animationID+".json")
	if err != nil {
		data, err = readFile(r.archive, prefix+animationID+".lot")
		if err != nil {
			return "", err
		}
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUtf8
	}

	return r.inlineAssets(data)
}

// ActiveAnimation returns the initial animation document.
func (r *Reader) ActiveAnimation() (string, error) {
	return r.Animation(r.activeAnimationID)
}

// inlineAssets rewrites the animation's assets array: external images are
// base64-encoded into data URLs, already-embedded ones get e=1.
func (r *Reader) inlineAssets(animationData []byte) (string, error) {
	var document map[string]json.RawMessage
	if err := json.Unmarshal(animationData, &document); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadContent, err)
	}

	rawAssets, ok := document["assets"]
	if !ok {
		return string(animationData), nil
	}

	var assets []map[string]interface{}
	if err := json.Unmarshal(rawAssets, &assets); err != nil {
		// Assets of an unexpected shape pass through untouched.
		return string(animationData), nil
	}

	changed := false
	for _, asset := range assets {
		p, _ := asset["p"].(string)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, dataImagePrefix) {
			asset["e"] = 1
			changed = true
			continue
		}

		content, err := r.ResolveAsset(p)
		if err != nil {
			continue
		}
		ext := "png"
		if idx := strings.LastIndex(p, "."); idx >= 0 && idx < len(p)-1 {
			ext = p[idx+1:]
		}
		asset["u"] = ""
		asset["p"] = fmt.Sprintf("data:image/%s;base64,%s", ext, base64.StdEncoding.EncodeToString(content))
		asset["e"] = 1
		changed = true
	}

	if !changed {
		return string(animationData), nil
	}

	patched, err := json.Marshal(assets)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadContent, err)
	}
	document["assets"] = patched

	out, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadContent, err)
	}
	return string(out), nil
}

// ResolveAsset reads an asset's bytes. Font paths starting with /f/ are
// normalized under f/; anything else is resolved under the image prefix
// by its final path segment.
func (r *Reader) ResolveAsset(assetPath string) ([]byte, error) {
	var path string
	if strings.HasPrefix(assetPath, "/f/") {
		path = strings.TrimPrefix(assetPath, "/")
	} else {
		name := assetPath
		if idx := strings.LastIndex(assetPath, "/"); idx >= 0 {
			name = assetPath[idx+1:]
		}
		path = r.imagePrefix() + name
	}
	return readFile(r.archive, path)
}

// Theme returns a theme document by id.
func (r *Reader) Theme(themeID string) (string, error) {
	prefix := "t/"
	if r.version == 1 {
		prefix = "themes/"
	}
	return r.readUtf8(prefix + themeID + ".json")
}

// GlobalInputs returns a global-inputs document by id.
func (r *Reader) GlobalInputs(globalInputsID string) (string, error) {
	prefix := "g/"
	if r.version == 1 {
		prefix = "inputs/"
	}
	return r.readUtf8(prefix + globalInputsID + ".json")
}

// StateMachine returns a state machine document by id.
func (r *Reader) StateMachine(stateMachineID string) (string, error) {
	prefix := "s/"
	if r.version == 1 {
		prefix = "states/"
	}
	return r.readUtf8(prefix + stateMachineID + ".json")
}

func (r *Reader) readUtf8(path string) (string, error) {
	data, err := readFile(r.archive, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUtf8
	}
	return string(data), nil
}

func readFile(archive *zip.Reader, path string) ([]byte, error) {
	file, err := archive.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileFind, path)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadContent, path)
	}
	return content, nil
}
