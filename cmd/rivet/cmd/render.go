package cmd

import (
	"fmt"
	"os"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/go-rivet/rivet/cmd/rivet/internal/config"
	"github.com/go-rivet/rivet/pkg/bind"
	"github.com/go-rivet/rivet/pkg/htmldom"
	"github.com/go-rivet/rivet/pkg/model"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a template once against a YAML data document",
		Long: `Render parses an HTML template fragment, binds its directives to a
model built from a YAML mapping, renders once, and prints the resulting
markup to stdout.

The YAML document must be a mapping; its top-level keys become model
fields. Reads rivet.yaml from the working directory for the directive
prefix and sanitation settings.`,
		Usage: "rivet render <template.html> [data.yaml]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("render expects <template.html> [data.yaml]")
	}

	cfg, err := config.LoadOptional(".")
	if err != nil {
		return err
	}

	markup, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	fields := map[string]any{}
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}
		if err := yaml.Unmarshal(data, &fields); err != nil {
			return fmt.Errorf("failed to parse data: %w", err)
		}
	}

	doc, roots, err := htmldom.ParseFragment(string(markup))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	if cfg.Sanitize {
		doc.SetSanitizer(bluemonday.UGCPolicy())
	}

	opts := []bind.Option{bind.WithModel(model.NewMap(fields))}
	if cfg.Prefix != "" {
		opts = append(opts, bind.WithPrefix(cfg.Prefix))
	}

	tpl, err := bind.NewTemplate(roots, opts...)
	if err != nil {
		return err
	}
	defer tpl.Destroy()

	if err := tpl.Render(); err != nil {
		return err
	}

	out, err := doc.HTML()
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
