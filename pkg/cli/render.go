package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/bodytmpl/pkg/extractor"
	"github.com/getmockd/bodytmpl/pkg/resource"
	"github.com/getmockd/bodytmpl/pkg/template"
)

type renderFlags struct {
	text    string
	file    string
	charset string
	method  string
	url     string
	headers []string
	body    string
	vars    []string
}

func newRenderCommand() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template once against a synthetic request",
		Example: `  bodytmpl render --template 'Hello ${name}, it is ${now("HH:mm")}' --var name=alice
  bodytmpl render --file order.json --method POST --body '{"id": 7}' \
      --header 'Content-Type: application/json'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := f.content()
			if err != nil {
				return err
			}
			vars, err := parseVars(f.vars)
			if err != nil {
				return err
			}
			res, err := template.NewResource(content, vars, template.WithLogger(slog.Default()))
			if err != nil {
				return err
			}
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			body, err := res.Render(req)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().StringVarP(&f.text, "template", "t", "", "Inline template text")
	cmd.Flags().StringVar(&f.file, "file", "", "Template file")
	cmd.Flags().StringVar(&f.charset, "charset", "", "Template charset (default UTF-8)")
	cmd.Flags().StringVarP(&f.method, "method", "X", http.MethodGet, "Request method")
	cmd.Flags().StringVar(&f.url, "url", "http://localhost/", "Request URL")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, `Request header "Name: value", repeatable`)
	cmd.Flags().StringVarP(&f.body, "body", "d", "", "Request body")
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "Static variable name=value, repeatable")
	cmd.MarkFlagsMutuallyExclusive("template", "file")
	cmd.MarkFlagsOneRequired("template", "file")
	return cmd
}

func (f *renderFlags) content() (template.ContentResource, error) {
	if f.charset != "" {
		if err := template.CheckCharset(f.charset); err != nil {
			return nil, err
		}
	}
	if f.file != "" {
		return resource.NewFile("", f.file, f.charset, "")
	}
	return resource.NewText(f.text, f.charset, ""), nil
}

func (f *renderFlags) request(cmd *cobra.Command) (*template.Request, error) {
	r, err := http.NewRequestWithContext(cmd.Context(), strings.ToUpper(f.method), f.url, strings.NewReader(f.body))
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	r.RemoteAddr = "127.0.0.1:0"
	r.RequestURI = r.URL.RequestURI()
	for _, h := range f.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: value\"", h)
		}
		r.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return template.NewRequest(r)
}

func parseVars(pairs []string) (map[string]template.Variable, error) {
	vars := make(map[string]template.Variable, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid variable %q, expected name=value", pair)
		}
		if err := template.CheckVariableName(name); err != nil {
			return nil, err
		}
		if _, dup := vars[name]; dup {
			return nil, fmt.Errorf("variable %q given more than once", name)
		}
		vars[name] = extractor.Value(value)
	}
	return vars, nil
}
