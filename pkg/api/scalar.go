// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/http"

	"github.com/stacklok/falcon-mcp/pkg/logger"
)

const scalarHTML = `<!doctype html>
<html>
  <head>
    <title>CrowdStrike Falcon MCP Server API Reference</title>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
  </head>
  <body>
    <script id="api-reference" type="application/json">
    %s
    </script>
    <script>
      var configuration = {
        theme: "saturn",
        metaData: {
          title: "CrowdStrike Falcon MCP Server",
          description: "HTTP/REST gateway for CrowdStrike Falcon MCP Server",
        },
        showServers: false
      }

      document.getElementById('api-reference').dataset.configuration =
        JSON.stringify(configuration)
    </script>
    <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
  </body>
</html>`

// ServeScalar serves the Scalar API reference page
func (d *docs) ServeScalar(w http.ResponseWriter, _ *http.Request) {
	if d.err != nil {
		http.Error(w, "Failed to build OpenAPI specification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := fmt.Fprintf(w, scalarHTML, d.spec); err != nil {
		logger.Debugf("Failed to write API reference page: %v", err)
	}
}
