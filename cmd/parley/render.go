/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/Comcast/parley/aiml"
	"github.com/Comcast/parley/tools"

	"github.com/spf13/cobra"
)

func renderCmd(a *app) *cobra.Command {
	var (
		format   string
		output   string
		title    string
		css      []string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the categories as HTML, a graph, YAML, or AIML",
		Long: `Formats:

  html      a page with each category, its docs, and its links
  dot       a Graphviz context graph (srai and that links)
  png       the dot graph rendered (needs the dot command); --output
            is the basename for BASENAME.dot and BASENAME.png
  mermaid   a Mermaid context graph
  yaml      a YAML category file
  aiml      an AIML file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			cs := store.Categories()

			if format == "png" {
				if output == "" || output == "-" {
					return fmt.Errorf("png needs --output BASENAME")
				}
				name, err := tools.PNG(tools.NewGraph(cs), output, -1)
				if err != nil {
					return fmt.Errorf("rendering %s: %w", name, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
				return nil
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			out := bufio.NewWriter(w)

			switch format {
			case "html":
				if fragment {
					err = tools.RenderStoreHTML(cs, out)
				} else {
					err = tools.RenderStorePage(title, cs, out, css)
				}
			case "dot":
				err = tools.Dot(tools.NewGraph(cs), out, -1)
			case "mermaid":
				err = tools.Mermaid(tools.NewGraph(cs), out, nil)
			case "yaml":
				var bs []byte
				if bs, err = aiml.AsYAML(cs); err == nil {
					_, err = out.Write(bs)
				}
			case "aiml":
				err = aiml.Write(out, cs)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return out.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "html", "html, dot, png, mermaid, yaml, or aiml")
	flags.StringVarP(&output, "output", "o", "-", "output file")
	flags.StringVar(&title, "title", "Categories", "HTML page title")
	flags.StringSliceVar(&css, "css", nil, "CSS files for the HTML page")
	flags.BoolVar(&fragment, "fragment", false, "HTML without the page")

	return cmd
}
