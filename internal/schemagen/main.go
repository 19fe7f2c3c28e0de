// Command schemagen writes the JSON schema of profiles.yml, for use by
// editors and yaml-language-server.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/macropower/dbtargets/pkg/profiles"
)

var outFile = flag.String("o", "profiles.schema.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	jsData, err := json.MarshalIndent(profiles.Schema(), "", "  ")
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, append(jsData, '\n'), 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
