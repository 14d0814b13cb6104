package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcred/compiler"
	"github.com/c360studio/semcred/credential"
	"github.com/c360studio/semcred/storage"
)

// Issue output formats.
const (
	issueDual   = "dual"
	issueJSONLD = credential.FormatJSONLD
	issueSDJWT  = credential.FormatSDJWT
)

type issueOptions struct {
	credentialType string
	contextURI     string
	registryURI    string
	subjectID      string
	format         string
	compact        bool
	validateJSONLD string
	validateSDJWT  string
	store          bool
	output         string
}

func issueCmd(g *globals) *cobra.Command {
	opts := &issueOptions{}

	cmd := &cobra.Command{
		Use:   "issue RECORD.json",
		Short: "Issue a credential from a subject record",
		Long: `Issue reads a JSON object of camelCase subject claims and issues it as a
W3C JSON-LD credential, a flat SD-JWT claim set, or both (the default).

Use - to read the record from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer g.app.Close()
			return runIssue(cmd, g.app, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.credentialType, "type", "t", "", "Credential type, e.g. PurchaseOrderCredential")
	f.StringVar(&opts.contextURI, "context-uri", "", "JSON-LD context URI")
	f.StringVar(&opts.registryURI, "registry-uri", "", "Semantic registry URI for SD-JWT")
	f.StringVar(&opts.subjectID, "subject-id", "", "Subject id (default urn:uuid)")
	f.StringVarP(&opts.format, "format", "f", issueDual, "Output: dual, jsonld or sdjwt")
	f.BoolVar(&opts.compact, "compact", false, "Print the SD-JWT as an unsecured compact token")
	f.StringVar(&opts.validateJSONLD, "validate-jsonld", "", "Validate the JSON-LD credential against this JSON Schema")
	f.StringVar(&opts.validateSDJWT, "validate-sdjwt", "", "Validate the SD-JWT claims against this JSON Schema")
	f.BoolVar(&opts.store, "store", false, "Store and publish the credential (needs nats.url)")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func runIssue(cmd *cobra.Command, app *App, path string, opts *issueOptions) error {
	switch opts.format {
	case issueDual, issueJSONLD, issueSDJWT:
	default:
		return fmt.Errorf("unknown format %q (want dual, jsonld or sdjwt)", opts.format)
	}
	if opts.compact && opts.format != issueSDJWT {
		return fmt.Errorf("--compact needs --format sdjwt")
	}
	if opts.store && !app.StorageEnabled() {
		return fmt.Errorf("--store needs nats.url in the config")
	}
	if opts.format != issueSDJWT && opts.contextURI == "" {
		return fmt.Errorf("--context-uri is required for JSON-LD output")
	}
	if opts.format != issueJSONLD && opts.registryURI == "" {
		return fmt.Errorf("--registry-uri is required for SD-JWT output")
	}

	record, err := readRecord(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	issuer := app.Issuer()
	var (
		vc     *credential.Envelope
		claims credential.SDJWT
		result any
	)
	switch opts.format {
	case issueDual:
		dt, err := issuer.IssueDualTrack(record, opts.credentialType, opts.contextURI, opts.registryURI, opts.subjectID)
		if err != nil {
			return err
		}
		vc, claims, result = &dt.Formats.JSONLD.Credential, dt.Formats.SDJWT.Credential, dt
	case issueJSONLD:
		env, err := issuer.IssueJSONLD(record, opts.credentialType, opts.contextURI, opts.subjectID)
		if err != nil {
			return err
		}
		vc, result = &env, env
	case issueSDJWT:
		claims, err = issuer.IssueSDJWT(record, opts.credentialType, opts.registryURI, opts.subjectID)
		if err != nil {
			return err
		}
		result = claims
	}

	if opts.validateJSONLD != "" && vc != nil {
		if err := validateAgainst(opts.validateJSONLD, vc); err != nil {
			return fmt.Errorf("json-ld credential: %w", err)
		}
	}
	if opts.validateSDJWT != "" && claims != nil {
		if err := validateAgainst(opts.validateSDJWT, claims); err != nil {
			return fmt.Errorf("sd-jwt credential: %w", err)
		}
	}

	if opts.store {
		if vc != nil {
			key := storage.Key{Format: credential.FormatJSONLD, Type: opts.credentialType, ID: vc.ID}
			if err := app.Save(cmd.Context(), key, vc); err != nil {
				return err
			}
		}
		if claims != nil {
			sub, _ := claims[credential.ClaimSubject].(string)
			key := storage.Key{Format: credential.FormatSDJWT, Type: opts.credentialType, ID: sub}
			if err := app.Save(cmd.Context(), key, claims); err != nil {
				return err
			}
		}
	}

	var out []byte
	if opts.compact {
		token, err := credential.Compact(claims)
		if err != nil {
			return err
		}
		out = []byte(token + "\n")
	} else {
		out, err = compiler.MarshalJSON(result)
		if err != nil {
			return err
		}
	}
	return writeOutput(cmd, opts.output, out)
}

// readRecord decodes a subject record, keeping numbers in their authored
// form. path - reads r.
func readRecord(r io.Reader, path string) (credential.Record, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var record credential.Record
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if record == nil {
		return nil, fmt.Errorf("record %s must be a JSON object", path)
	}
	return record, nil
}

func validateAgainst(schemaPath string, doc any) error {
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	return compiler.ValidateDocument(schema, doc)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
