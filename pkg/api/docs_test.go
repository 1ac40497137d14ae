// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/falcon-mcp/pkg/config"
	"github.com/stacklok/falcon-mcp/pkg/tools"
	toolsmocks "github.com/stacklok/falcon-mcp/pkg/tools/mocks"
)

func TestOpenAPIDescribesEveryTool(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(&config.Config{}, toolsmocks.NewMockClientFactory(gomock.NewController(t)))
	rec := serve(t, srv, http.MethodGet, OpenAPIPath, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	doc := rec.Body.Bytes()
	assert.Equal(t, "CrowdStrike Falcon MCP Server", gjson.GetBytes(doc, "info.title").String())

	for _, path := range []string{"/", "/healthz", "/tools", "/metrics"} {
		assert.True(t, gjson.GetBytes(doc, "paths."+gjson.Escape(path)+".get").Exists(), path)
	}

	descs := tools.Default().List()
	require.Len(t, descs, 14)
	for _, desc := range descs {
		op := gjson.GetBytes(doc, "paths."+gjson.Escape(desc.Endpoint())+".post")
		require.True(t, op.Exists(), desc.Name)
		assert.Equal(t, desc.Name, op.Get("operationId").String())
		assert.Equal(t, desc.Description, op.Get("summary").String())

		schema := op.Get(`requestBody.content.application/json.schema`)
		require.True(t, schema.Exists(), desc.Name)
		assert.Equal(t, "object", schema.Get("type").String(), desc.Name)
		assert.False(t, schema.Get("additionalProperties").Bool(), desc.Name)
		for _, p := range desc.Params {
			prop := schema.Get("properties." + p.Name)
			require.True(t, prop.Exists(), "%s.%s", desc.Name, p.Name)
			assert.Equal(t, string(p.Type), prop.Get("type").String(), "%s.%s", desc.Name, p.Name)
		}
		assert.True(t, schema.Get("properties.api_key").Exists(), desc.Name)
		assert.True(t, schema.Get("properties.tenant_id").Exists(), desc.Name)

		var required []string
		for _, r := range schema.Get("required").Array() {
			required = append(required, r.String())
		}
		assert.Equal(t, desc.Required(), required, desc.Name)

		for _, code := range []string{"200", "400", "404", "500"} {
			assert.True(t, op.Get("responses."+code).Exists(), "%s %s", desc.Name, code)
		}
	}

	limit := gjson.GetBytes(doc, `paths./tools/query_hosts.post.requestBody.content.application/json.schema.properties.limit`)
	assert.Equal(t, int64(1), limit.Get("minimum").Int())
	assert.Equal(t, int64(5000), limit.Get("maximum").Int())
}

func TestDocsPageEmbedsOpenAPI(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(&config.Config{}, toolsmocks.NewMockClientFactory(gomock.NewController(t)))
	rec := serve(t, srv, http.MethodGet, DocsPath, "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `id="api-reference"`)
	assert.Contains(t, body, `"/tools/create_ioc"`)
}

func TestRootDescriptorPointsAtServedDocs(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(&config.Config{}, toolsmocks.NewMockClientFactory(gomock.NewController(t)))
	root := serve(t, srv, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, root.Code)

	documentation := gjson.GetBytes(root.Body.Bytes(), "documentation").String()
	openapi := gjson.GetBytes(root.Body.Bytes(), "endpoints.openapi").String()
	assert.Equal(t, DocsPath, documentation)
	assert.Equal(t, OpenAPIPath, openapi)

	assert.Equal(t, http.StatusOK, serve(t, srv, http.MethodGet, documentation, "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(t, srv, http.MethodGet, openapi, "", nil).Code)
}
