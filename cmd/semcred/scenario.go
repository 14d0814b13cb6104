package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/sap"
	"github.com/c360studio/semcred/storage"
)

// ScenarioOutput is the credential set of one trade scenario.
type ScenarioOutput struct {
	Scenario    string         `json:"scenario"`
	Description string         `json:"description"`
	Credentials map[string]any `json:"credentials"`
}

func scenarioCmd(g *globals) *cobra.Command {
	var (
		dual   bool
		store  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "scenario [ID]",
		Short: "Map the sample SAP trade scenarios to verifiable credentials",
		Long: `Scenario maps every document of a sample trade flow to a W3C credential.
Without an ID all scenarios are mapped. With --dual each credential subject is
re-issued in both JSON-LD and SD-JWT form.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer g.app.Close()
			if store && !g.app.StorageEnabled() {
				return fmt.Errorf("--store needs nats.url in the config")
			}

			st, err := sap.NewStore(sap.SampleScenarios(time.Now()))
			if err != nil {
				return err
			}
			scenarios := st.Scenarios()
			if len(args) == 1 {
				sc, err := st.Scenario(args[0])
				if err != nil {
					return err
				}
				scenarios = []sap.Scenario{sc}
			}

			m, err := g.app.Mapper()
			if err != nil {
				return err
			}
			issuer := g.app.Issuer()
			registryURI := g.app.cfg.Issuer.SchemaBase + "/" + compiler.RegistryFile

			var outputs []ScenarioOutput
			for _, sc := range scenarios {
				vcs, err := m.Scenario(sc)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", sc.ID, err)
				}

				out := ScenarioOutput{Scenario: sc.ID, Description: sc.Description, Credentials: map[string]any{}}
				for _, key := range sortedEnvelopeKeys(vcs) {
					env := vcs[key]
					if !dual {
						out.Credentials[key] = env
						if store {
							k := storage.Key{Format: credential.FormatJSONLD, Type: env.CredentialType(), ID: env.ID}
							if err := g.app.Save(cmd.Context(), k, env); err != nil {
								return err
							}
						}
						continue
					}

					dt, err := reissueDual(issuer, env, registryURI)
					if err != nil {
						return fmt.Errorf("scenario %s %s: %w", sc.ID, key, err)
					}
					out.Credentials[key] = dt
					if store {
						jl := dt.Formats.JSONLD.Credential
						k := storage.Key{Format: credential.FormatJSONLD, Type: dt.CredentialType, ID: jl.ID}
						if err := g.app.Save(cmd.Context(), k, jl); err != nil {
							return err
						}
						sd := dt.Formats.SDJWT.Credential
						sub, _ := sd[credential.ClaimSubject].(string)
						k = storage.Key{Format: credential.FormatSDJWT, Type: dt.CredentialType, ID: sub}
						if err := g.app.Save(cmd.Context(), k, sd); err != nil {
							return err
						}
					}
				}
				outputs = append(outputs, out)
			}

			var result any = outputs
			if len(args) == 1 {
				result = outputs[0]
			}
			data, err := compiler.MarshalJSON(result)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}

	cmd.Flags().BoolVar(&dual, "dual", false, "Issue each credential in JSON-LD and SD-JWT form")
	cmd.Flags().BoolVar(&store, "store", false, "Store and publish the credentials (needs nats.url)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// reissueDual issues a mapped credential's subject as a dual-track
// credential with the same context and subject id.
func reissueDual(issuer *credential.Issuer, env credential.Envelope, registryURI string) (credential.DualTrack, error) {
	subject := env.CredentialSubject.Clone()
	subjectID, _ := subject["id"].(string)
	delete(subject, "id")
	// The subject node type would collide with the reserved type claim.
	delete(subject, "type")

	contextURI := ""
	if n := len(env.Context); n > 1 {
		contextURI = env.Context[n-1]
	}
	return issuer.IssueDualTrack(subject, env.CredentialType(), contextURI, registryURI, subjectID)
}

func sortedEnvelopeKeys(m map[string]credential.Envelope) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
