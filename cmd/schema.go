package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vidtrack/vidtrack/analytics"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/history"
)

var schemaTargets = map[string]any{
	"event":   &event.VideoEvent{},
	"summary": &analytics.Summary{},
	"record":  &history.Record{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().StringP("type", "t", "event", "Document to describe: event, summary or record")
	lo.Must0(schemaCmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(schemaTargets), cobra.ShellCompDirectiveNoFileComp
	}))
	schemaCmd.SetOut(os.Stdout)
}

// eventSchema describes the wire event. Metadata keys sit next to the fixed
// data fields, so data accepts additional properties.
func eventSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&event.VideoEvent{})

	if data, ok := schema.Properties.Get("data"); ok {
		data.AdditionalProperties = jsonschema.TrueSchema
	}
	if typ, ok := schema.Properties.Get("type"); ok {
		typ.Enum = lo.Map(event.Types(), func(t event.Type, _ int) any { return string(t) })
	}

	return schema
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of events, summaries or history records",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("type"))
		target, ok := schemaTargets[name]
		if !ok {
			handleErr(fmt.Errorf("unknown schema %q", name))
		}

		var schema *jsonschema.Schema
		if name == "event" {
			schema = eventSchema()
		} else {
			schema = jsonschema.Reflect(target)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
