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

package templates

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// Page templates use <%= and %> as delimiters so that the mustaches of in-DOM
// Vue templates are left as is
const (
	PageLeftDelim  = "<%="
	PageRightDelim = "%>"
)

// Page is the data an HTML page template is rendered with
type Page struct {
	Title   string
	Scripts []string
	Styles  []string
}

// RenderPage renders an HTML page template then injects the stylesheets
// before </head> and the scripts before </body>
func RenderPage(content string, page Page) ([]byte, error) {
	t, err := template.New("page").Delims(PageLeftDelim, PageRightDelim).Parse(content)
	if err != nil {
		return nil, err
	}

	var rendered bytes.Buffer
	if err := t.Execute(&rendered, page); err != nil {
		return nil, err
	}

	styles := &strings.Builder{}
	for _, style := range page.Styles {
		fmt.Fprintf(styles, "<link href=\"%s\" rel=\"stylesheet\">", html.EscapeString(style))
	}
	scripts := &strings.Builder{}
	for _, script := range page.Scripts {
		fmt.Fprintf(scripts, "<script src=\"%s\"></script>", html.EscapeString(script))
	}

	result := inject(rendered.String(), "</head>", styles.String())
	result = inject(result, "</body>", scripts.String())
	return []byte(result), nil
}

// inject inserts tags before the last closing marker, or appends them
func inject(document string, marker string, tags string) string {
	if tags == "" {
		return document
	}
	index := strings.LastIndex(strings.ToLower(document), marker)
	if index < 0 {
		return document + tags
	}
	return document[:index] + tags + document[index:]
}
