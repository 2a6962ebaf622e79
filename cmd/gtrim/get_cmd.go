package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/gtrim/internal/log"
	"github.com/raphi011/gtrim/internal/output"
	"github.com/raphi011/gtrim/internal/resolve"
	"github.com/raphi011/gtrim/internal/store"
)

// Value types accepted by get --type.
const (
	typeString = "string"
	typeBool   = "bool"
	typeList   = "list"
)

var validTypes = []string{typeString, typeBool, typeList}

// valueJSON is the --json shape of a resolved value.
type valueJSON struct {
	Key      string `json:"key"`
	Value    any    `json:"value"`
	Source   string `json:"source,omitempty"`
	Implicit bool   `json:"implicit"`
}

// resolved is a resolution flattened to text.
type resolved struct {
	text     string
	value    any
	source   string
	implicit bool
}

func fromValue[T any](v *resolve.Value[T], format func(T) string) *resolved {
	if v == nil {
		return nil
	}
	return &resolved{
		text:     format(v.Get()),
		value:    v.Get(),
		source:   v.Source(),
		implicit: v.IsImplicit(),
	}
}

func newGetCmd() *cobra.Command {
	var (
		valueType  string
		def        string
		set        string
		copyValue  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "get <key>",
		Short:   "Resolve a git config key",
		GroupID: GroupQuery,
		Args:    cobra.ExactArgs(1),
		Long: `Resolve a git config key and show where the value came from.

--set wins over git config, which wins over --default. With --type list
every entry of a multi-valued key is returned in declaration order;
entries that are not valid UTF-8 are skipped with a warning.

Exits with an error when the key is unset and no --default is given.`,
		Example: `  gtrim get remote.origin.url
  gtrim get --type bool trim.confirm --default true
  gtrim get --type list remote.origin.fetch
  gtrim get user.email --copy`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			key := args[0]

			s, err := envFromContext(ctx).openStore(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			r, err := resolveKey(ctx, s, key, valueType, flagValue(flags.Changed("set"), set), flagValue(flags.Changed("default"), def))
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("%s is not set", key)
			}

			if copyValue {
				if err := clipboard.WriteAll(r.text); err != nil {
					log.FromContext(ctx).Warnf("failed to copy to clipboard: %v", err)
				}
			}

			out := output.FromContext(ctx)
			if jsonOutput {
				return out.JSON(valueJSON{Key: key, Value: r.value, Source: r.source, Implicit: r.implicit})
			}
			out.Println(r.text + " " + output.Dim(provenance(r.source, r.implicit)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&valueType, "type", "t", typeString, "Value type: string, bool or list")
	cmd.Flags().StringVarP(&def, "default", "d", "", "Value used when the key is unset")
	cmd.Flags().StringVar(&set, "set", "", "Override the key without reading git config")
	cmd.Flags().BoolVar(&copyValue, "copy", false, "Copy the value to the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.RegisterFlagCompletionFunc("type", cobra.FixedCompletions(validTypes, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func flagValue(changed bool, v string) *string {
	if !changed {
		return nil
	}
	return &v
}

// resolveKey resolves key as valueType. set and def are raw flag values,
// nil when the flag was not given.
func resolveKey(ctx context.Context, s store.Store, key, valueType string, set, def *string) (*resolved, error) {
	switch valueType {
	case typeString:
		req := resolve.Get[string](s, key).WithExplicit("--set", set)
		if def != nil {
			req = req.WithDefault(*def)
		}
		v, err := req.Read(ctx, resolve.String)
		if err != nil {
			return nil, err
		}
		return fromValue(v, func(s string) string { return s }), nil

	case typeBool:
		req := resolve.Get[bool](s, key)
		if set != nil {
			b, err := store.ParseBool(*set)
			if err != nil {
				return nil, fmt.Errorf("invalid --set: %w", err)
			}
			req = req.WithExplicit("--set", &b)
		}
		if def != nil {
			b, err := store.ParseBool(*def)
			if err != nil {
				return nil, fmt.Errorf("invalid --default: %w", err)
			}
			req = req.WithDefault(b)
		}
		v, err := req.Read(ctx, resolve.Bool)
		if err != nil {
			return nil, err
		}
		return fromValue(v, func(b bool) string { return fmt.Sprint(b) }), nil

	case typeList:
		req := resolve.Get[[]string](s, key)
		if set != nil {
			req = req.WithExplicit("--set", &[]string{*set})
		}
		if def != nil {
			req = req.WithDefault([]string{*def})
		}
		v, err := req.ParseMulti(ctx, func(entries []string) ([]string, error) {
			return entries, nil
		})
		if err != nil {
			return nil, err
		}
		return fromValue(v, func(l []string) string { return strings.Join(l, "\n") }), nil

	default:
		return nil, fmt.Errorf("invalid --type %q: must be %q, %q or %q", valueType, typeString, typeBool, typeList)
	}
}

// provenance formats where a value came from, e.g. "(remote.origin.url)".
func provenance(source string, implicit bool) string {
	if implicit {
		return "(default)"
	}
	return "(" + source + ")"
}
