package javascript

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/natefinch/atomic"
	"github.com/pkg/errors"

	"github.com/ZacxDev/nolan-sites/config"
)

// CompileJSTarget bundles and minifies each target into outRoot/<out_dir>,
// naming files <name>_<hash>.js with a sibling source map. It returns the
// public path of every target's script keyed by target name.
func CompileJSTarget(targets map[string]config.JavascriptTarget, outRoot string) (map[string]string, error) {
	emitted := make(map[string]string, len(targets))

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, targetName := range names {
		target := targets[targetName]
		result := api.Build(api.BuildOptions{
			EntryPoints:       []string{target.Source},
			Bundle:            true,
			Format:            api.FormatIIFE,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
			Engines: []api.Engine{
				{Name: api.EngineChrome, Version: "100"},
				{Name: api.EngineFirefox, Version: "100"},
				{Name: api.EngineSafari, Version: "15"},
				{Name: api.EngineEdge, Version: "100"},
			},
			Sourcemap: api.SourceMapExternal,
			Write:     false,
			Outdir:    filepath.Join(outRoot, target.OutDir),
		})

		if len(result.Errors) > 0 {
			msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
			return nil, errors.Errorf("compile %s: %s", targetName, strings.Join(msgs, "\n"))
		}

		// Scripts first so each map can find its script's hash.
		var regularFiles, mapFiles []api.OutputFile
		for _, out := range result.OutputFiles {
			if strings.EqualFold(filepath.Ext(out.Path), ".map") {
				mapFiles = append(mapFiles, out)
			} else {
				regularFiles = append(regularFiles, out)
			}
		}
		sortedFiles := append(regularFiles, mapFiles...)

		srcToHash := make(map[string]string)

		for _, out := range sortedFiles {
			dir := filepath.Dir(out.Path)
			base := filepath.Base(out.Path)
			ext := base[strings.Index(base, "."):]
			isMap := ext == ".js.map"
			fileNameWithoutExt := strings.TrimSuffix(base, ext)

			var hashForFileName string
			if isMap {
				hashForFileName = srcToHash[fileNameWithoutExt]
				if hashForFileName == "" {
					return nil, errors.Errorf("source map %s can not find hash for its source file", fileNameWithoutExt)
				}
			} else {
				safeHash := strings.ReplaceAll(out.Hash, "/", "")
				srcToHash[fileNameWithoutExt] = safeHash
				hashForFileName = safeHash
			}

			name := fmt.Sprintf("%s_%s%s", fileNameWithoutExt, hashForFileName, ext)
			newPath := filepath.Join(dir, name)

			contents := out.Contents
			if !isMap {
				contents = append(append([]byte{}, out.Contents...), []byte(fmt.Sprintf("//# sourceMappingURL=%s.map", name))...)
			}

			if err := atomic.WriteFile(newPath, bytes.NewReader(contents)); err != nil {
				return nil, errors.Wrapf(err, "write %s", newPath)
			}

			if !isMap {
				emitted[targetName] = path.Join("/", filepath.ToSlash(target.OutDir), name)
			}
		}
	}

	return emitted, nil
}
