// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package descriptor

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/magiconair/properties"
)

const (
	langPrefix = "lang_"
	langSuffix = ".properties"
)

// ReadLangs loads the unit's lang_<tag>.properties bundles into a map
// keyed by language tag. Unreadable bundles are logged and skipped.
func ReadLangs(dir string) map[string]map[string]string {
	matches, err := filepath.Glob(filepath.Join(dir, langPrefix+"*"+langSuffix))
	if err != nil {
		return nil
	}

	langs := make(map[string]map[string]string, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		tag := strings.TrimSuffix(strings.TrimPrefix(base, langPrefix), langSuffix)
		if tag == "" {
			continue
		}

		props, err := properties.LoadFile(path, properties.UTF8)
		if err != nil {
			slog.Warn("skipping unreadable language bundle",
				"path", path,
				"error", err)
			continue
		}
		langs[tag] = props.Map()
	}

	if len(langs) == 0 {
		return nil
	}
	return langs
}
