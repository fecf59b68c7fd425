package restapi

import (
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simdex/simdex/label"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

func TestMain(m *testing.M) {
	st.ResetSettings()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	fcs, err := store.NewMemoryStore()
	require.Nil(t, err)
	labels, err := label.NewMemoryLabelStore()
	require.Nil(t, err)
	return NewServer(fcs, labels, nil)
}

func do(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

// digest hex with the first n nibbles set, for building similar and
// dissimilar collections
func dig(n int) string {
	return strings.Repeat("f", n) + strings.Repeat("0", 64-n)
}

func fcBody(name, digest string) string {
	fc := store.FeatureCollection{}
	fc.Add("NAME", name, 1)
	if digest != "" {
		fc.Add("nilsimsa_all", digest, 1)
	}
	raw, _ := store.MarshalFC(fc)
	return string(raw)
}

func TestGetRoot(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/", "")
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "Simdex", w.Body.String())
}

func TestFCRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	w := do(srv, "PUT", "/api/v1/fc/doc1", fcBody("acme.exe", dig(0)))
	require.Equal(t, 201, w.Code)

	w = do(srv, "GET", "/api/v1/fc/doc1", "")
	require.Equal(t, 200, w.Code)
	fc, err := store.UnmarshalFC(w.Body.Bytes())
	require.Nil(t, err)
	assert.Equal(t, []string{"acme.exe"}, fc.Feature("NAME").Keys())
}

func TestGetFCNotFound(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/api/v1/fc/ghost", "")
	assert.Equal(t, 404, w.Code)

	response := APIError{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "404", response.Status)
}

func TestPutFCRejectsBadBody(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "PUT", "/api/v1/fc/doc1", "{not json")
	assert.Equal(t, 400, w.Code)
}

func TestRandomFC(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/api/v1/fc/random", "")
	assert.Equal(t, 404, w.Code, "empty store has nothing to return")

	require.Equal(t, 201, do(srv, "PUT", "/api/v1/fc/doc1", fcBody("acme.exe", "")).Code)
	w = do(srv, "GET", "/api/v1/fc/random", "")
	require.Equal(t, 200, w.Code)
	response := FCResponse{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "doc1", response.ContentID)
}

func seedSearchCorpus(t *testing.T, srv *Server) {
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/fc/q", fcBody("acme.exe", dig(0))).Code)
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/fc/dup", fcBody("acme.exe", dig(0))).Code)
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/fc/far", fcBody("acme.exe", dig(32))).Code)
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t)
	seedSearchCorpus(t, srv)

	w := do(srv, "GET", "/api/v1/fc/q/search/index_scan?limit=10&filter=near_duplicates", "")
	require.Equal(t, 200, w.Code)
	response := SearchResponse{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Equal(t, "far", response.Results[0].ContentID)
	assert.NotNil(t, response.Results[0].FC)
}

func TestSearchDefaultKeepsUnjudged(t *testing.T) {
	srv := newTestServer(t)
	seedSearchCorpus(t, srv)

	// without a filter param only already judged pairs are hidden, the
	// unjudged duplicate is still a result
	w := do(srv, "GET", "/api/v1/fc/q/search/index_scan?limit=10", "")
	require.Equal(t, 200, w.Code)
	response := SearchResponse{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &response))
	found := []string{}
	for _, result := range response.Results {
		found = append(found, result.ContentID)
	}
	assert.ElementsMatch(t, []string{"dup", "far"}, found)
}

func TestSearchOmitFC(t *testing.T) {
	srv := newTestServer(t)
	seedSearchCorpus(t, srv)

	w := do(srv, "GET", "/api/v1/fc/q/search/index_scan?limit=10&filter=near_duplicates&omit_fc=1", "")
	require.Equal(t, 200, w.Code)
	response := SearchResponse{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Results, 1)
	assert.Nil(t, response.Results[0].FC)
}

func TestSearchUnknownEngine(t *testing.T) {
	srv := newTestServer(t)
	seedSearchCorpus(t, srv)
	assert.Equal(t, 404, do(srv, "GET", "/api/v1/fc/q/search/clairvoyance", "").Code)
}

func TestSearchUnknownQuery(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, 404, do(srv, "GET", "/api/v1/fc/ghost/search/index_scan", "").Code)
}

func TestSearchUnknownFilter(t *testing.T) {
	srv := newTestServer(t)
	seedSearchCorpus(t, srv)
	assert.Equal(t, 400, do(srv, "GET", "/api/v1/fc/q/search/index_scan?filter=vibes", "").Code)
}

func TestSearchEngines(t *testing.T) {
	srv := newTestServer(t)
	w := do(srv, "GET", "/api/v1/search_engines", "")
	require.Equal(t, 200, w.Code)
	engines := []string{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &engines))
	assert.Equal(t, []string{"index_scan", "random"}, engines)
}

func TestPutLabelAndFetch(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, 201, do(srv, "PUT", "/api/v1/label/a/b/tester", "1").Code)
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/label/b/c/tester", "1").Code)
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/label/a/d/tester", "-1").Code)

	w := do(srv, "GET", "/api/v1/label/a/direct", "")
	require.Equal(t, 200, w.Code)
	direct := []label.Label{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &direct))
	assert.Len(t, direct, 2)

	w = do(srv, "GET", "/api/v1/label/a/connected", "")
	require.Equal(t, 200, w.Code)
	component := []label.Label{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &component))
	assert.Len(t, component, 2, "negative labels are not part of the component")
}

func TestPutLabelRejectsBadValue(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, 400, do(srv, "PUT", "/api/v1/label/a/b/tester", "5").Code)
	assert.Equal(t, 400, do(srv, "PUT", "/api/v1/label/a/b/tester", "yes").Code)
}

func TestFolderFlow(t *testing.T) {
	srv := newTestServer(t)

	require.Equal(t, 201, do(srv, "PUT", "/api/v1/folder/Cases", "").Code)
	require.Equal(t, 201, do(srv, "PUT", "/api/v1/folder/Cases/subfolder/Open/doc1/page3", "").Code)

	w := do(srv, "GET", "/api/v1/folder", "")
	require.Equal(t, 200, w.Code)
	folders := []string{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &folders))
	assert.Equal(t, []string{"Cases"}, folders)

	w = do(srv, "GET", "/api/v1/folder/Cases/subfolder", "")
	require.Equal(t, 200, w.Code)
	subfolders := []string{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &subfolders))
	assert.Equal(t, []string{"Open"}, subfolders)

	w = do(srv, "GET", "/api/v1/folder/Cases/subfolder/Open", "")
	require.Equal(t, 200, w.Code)
	items := []map[string]string{}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "doc1", items[0]["content_id"])
	assert.Equal(t, "page3", items[0]["subtopic_id"])
}

func TestFolderErrors(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, 400, do(srv, "PUT", "/api/v1/folder/bad%20id", "").Code)
	assert.Equal(t, 404, do(srv, "GET", "/api/v1/folder/Ghost/subfolder", "").Code)
	assert.Equal(t, 404, do(srv, "PUT", "/api/v1/folder/Ghost/subfolder/Open/doc1/x", "").Code)
}
