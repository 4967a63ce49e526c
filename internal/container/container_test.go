package container

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildContainer assembles an in-memory .lottie zip from path -> content.
func buildContainer(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for path, content := range files {
		f, err := w.Create(path)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const v2Manifest = `{
  "version": "2",
  "generator": "test",
  "initial": {"animation": "hero", "stateMachine": "sm"},
  "animations": [{"id": "hero"}, {"id": "alt", "initialTheme": "dark"}],
  "themes": [{"id": "dark"}],
  "stateMachines": [{"id": "sm"}]
}`

const animationNoAssets = `{"v":"5.5.2","fr":60,"w":100,"h":100,"assets":[]}`

func TestOpenResolvesInitialAnimation(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
		"a/hero.json":   animationNoAssets,
	})

	r, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, "hero", r.ActiveAnimationID())
	assert.Equal(t, 2, r.Version())
	assert.Equal(t, "test", r.Manifest().Generator)
	require.NotNil(t, r.Manifest().Animation("alt"))
	assert.Equal(t, "dark", r.Manifest().Animation("alt").InitialTheme)
}

func TestOpenFallsBackToFirstAnimation(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": `{"version": "2", "animations": [{"id": "only"}]}`,
		"a/only.json":   animationNoAssets,
	})

	r, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, "only", r.ActiveAnimationID())
}

func TestOpenFailures(t *testing.T) {
	_, err := Open([]byte("not a zip"))
	assert.ErrorIs(t, err, ErrArchiveOpen)

	noManifest := buildContainer(t, map[string]string{"a/x.json": "{}"})
	_, err = Open(noManifest)
	assert.ErrorIs(t, err, ErrMissingManifest)

	noAnimations := buildContainer(t, map[string]string{
		"manifest.json": `{"version": "2", "animations": []}`,
	})
	_, err = Open(noAnimations)
	assert.ErrorIs(t, err, ErrAnimationNotFound)
}

func TestAnimationInlinesImageAssets(t *testing.T) {
	animation := `{"w":100,"h":100,"assets":[
		{"id":"img_0","u":"images/","p":"star.png","e":0},
		{"id":"img_1","u":"","p":"data:image/png;base64,QUJD"}
	]}`
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
		"a/hero.json":   animation,
		"i/star.png":    "PNGBYTES",
	})

	r, err := Open(data)
	require.NoError(t, err)
	out, err := r.ActiveAnimation()
	require.NoError(t, err)

	var doc struct {
		Assets []map[string]interface{} `json:"assets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Assets, 2)

	external := doc.Assets[0]
	assert.Equal(t, "", external["u"])
	assert.True(t, strings.HasPrefix(external["p"].(string), "data:image/png;base64,"))
	assert.Equal(t, float64(1), external["e"])

	embedded := doc.Assets[1]
	assert.Equal(t, "data:image/png;base64,QUJD", embedded["p"])
	assert.Equal(t, float64(1), embedded["e"])
}

func TestAnimationLotFallback(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
		"a/hero.lot":    animationNoAssets,
	})

	r, err := Open(data)
	require.NoError(t, err)
	out, err := r.ActiveAnimation()
	require.NoError(t, err)
	assert.Contains(t, out, `"fr":60`)
}

func TestAnimationMissing(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
	})

	r, err := Open(data)
	require.NoError(t, err)
	_, err = r.Animation("hero")
	assert.ErrorIs(t, err, ErrFileFind)
}

func TestResolveAssetPaths(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
		"a/hero.json":   animationNoAssets,
		"i/star.png":    "IMAGE",
		"f/Inter.ttf":   "FONT",
	})

	r, err := Open(data)
	require.NoError(t, err)

	// Image paths resolve by final segment under the image prefix.
	content, err := r.ResolveAsset("some/dir/star.png")
	require.NoError(t, err)
	assert.Equal(t, "IMAGE", string(content))

	// Font paths starting with /f/ normalize into f/.
	content, err = r.ResolveAsset("/f/Inter.ttf")
	require.NoError(t, err)
	assert.Equal(t, "FONT", string(content))
}

func TestV1Layout(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json":       `{"version": "1", "animations": [{"id": "old"}]}`,
		"animations/old.json": animationNoAssets,
		"images/img.png":      "V1IMAGE",
	})

	r, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Version())

	_, err = r.ActiveAnimation()
	require.NoError(t, err)

	content, err := r.ResolveAsset("img.png")
	require.NoError(t, err)
	assert.Equal(t, "V1IMAGE", string(content))
}

func TestThemeAndStateMachineDocuments(t *testing.T) {
	data := buildContainer(t, map[string]string{
		"manifest.json": v2Manifest,
		"a/hero.json":   animationNoAssets,
		"t/dark.json":   `{"rules": []}`,
		"s/sm.json":     `{"descriptor": {"id": "sm", "initial": "a"}, "states": []}`,
	})

	r, err := Open(data)
	require.NoError(t, err)

	theme, err := r.Theme("dark")
	require.NoError(t, err)
	assert.JSONEq(t, `{"rules": []}`, theme)

	sm, err := r.StateMachine("sm")
	require.NoError(t, err)
	assert.Contains(t, sm, `"initial"`)

	_, err = r.Theme("light")
	assert.ErrorIs(t, err, ErrFileFind)
}
