// Copyright 2021 AI Redefined Inc. <dev+cogment@ai-r.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundler

import (
	"encoding/json"
)

// Metafile is the part of the esbuild metafile used for build statistics
type Metafile struct {
	Inputs  map[string]MetafileInput  `json:"inputs"`
	Outputs map[string]MetafileOutput `json:"outputs"`
}

type MetafileInput struct {
	Bytes   int              `json:"bytes"`
	Imports []MetafileImport `json:"imports"`
}

type MetafileImport struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

type MetafileOutput struct {
	Bytes      int                            `json:"bytes"`
	Inputs     map[string]MetafileOutputInput `json:"inputs"`
	Imports    []MetafileImport               `json:"imports"`
	Exports    []string                       `json:"exports"`
	EntryPoint string                         `json:"entryPoint,omitempty"`
}

type MetafileOutputInput struct {
	BytesInOutput int `json:"bytesInOutput"`
}

func parseMetafile(content string) (*Metafile, error) {
	metafile := &Metafile{}
	if content == "" {
		return metafile, nil
	}
	if err := json.Unmarshal([]byte(content), metafile); err != nil {
		return nil, err
	}
	return metafile, nil
}
