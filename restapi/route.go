package restapi

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simdex/simdex/folder"
	"github.com/simdex/simdex/hooks"
	"github.com/simdex/simdex/label"
	"github.com/simdex/simdex/search"
	st "github.com/simdex/simdex/settings"
	"github.com/simdex/simdex/store"
)

// Server wires the stores and the searcher into the HTTP API.
type Server struct {
	Router   *gin.Engine
	store    store.Store
	labels   label.LabelStore
	folders  *folder.Folders
	searcher *search.Searcher
	hook     hooks.LabelHook
}

// response to hitting '/' on the server
func GetRoot(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/plain")
	_, err := c.Writer.Write([]byte("Simdex"))
	if err != nil {
		st.Logger.Err(err).Msg("get root")
	}
}

// Basic middleware to log errors.
func ErrorLoggerMiddleware(c *gin.Context) {
	if c == nil {
		st.Logger.Error().Msg("gin error, couldn't provide error info as context was nil.")
		return
	}
	c.Next()

	for _, err := range c.Errors {
		if c.Request == nil || c.Request.URL == nil {
			st.Logger.Error().Err(err).Msg("gin error, limited detail was Request or Request URL was nil.")
		} else {
			st.Logger.Error().Err(err).Msgf("gin error on route %s %s with query params %v", c.Request.Method, c.Request.URL, c.Request.URL.Query())
		}
	}
}

// NewServer builds the router. The hook may be nil, labels are then not
// published anywhere.
func NewServer(fcs store.Store, labels label.LabelStore, hook hooks.LabelHook) *Server {
	gin.SetMode(gin.ReleaseMode) // don't print route list on start

	st.Logger.Info().Msg("Start Simdex RestAPI")
	router := gin.New()
	router.Use(ErrorLoggerMiddleware)

	srv := &Server{
		Router:   router,
		store:    fcs,
		labels:   labels,
		folders:  &folder.Folders{Store: fcs, Labels: labels},
		searcher: &search.Searcher{Store: fcs, Labels: labels},
		hook:     hook,
	}

	// fetch a random stored feature collection, registered before the
	// parameterised route so "random" is not taken as a content id
	lpath := "/api/v1/fc/random"
	router.GET(lpath, MetricHandler(lpath, srv.GetRandomFC))
	// fetch / store a feature collection
	lpath = "/api/v1/fc/:cid"
	router.GET(lpath, MetricHandler(lpath, srv.GetFC))
	router.PUT(lpath, MetricHandler(lpath, srv.PutFC))
	// search for candidates similar to a stored collection
	lpath = "/api/v1/fc/:cid/search/:engine"
	router.GET(lpath, MetricHandler(lpath, srv.GetSearch))
	// list the available search engines
	lpath = "/api/v1/search_engines"
	router.GET(lpath, MetricHandler(lpath, srv.GetSearchEngines))

	// store one judgement about a pair of collections
	lpath = "/api/v1/label/:cid1/:cid2/:annotator"
	router.PUT(lpath, MetricHandler(lpath, srv.PutLabel))
	// labels touching a collection
	lpath = "/api/v1/label/:cid/direct"
	router.GET(lpath, MetricHandler(lpath, srv.GetLabelsDirect))
	// everything transitively judged the same as a collection
	lpath = "/api/v1/label/:cid/connected"
	router.GET(lpath, MetricHandler(lpath, srv.GetLabelsConnected))

	// folder hierarchy
	lpath = "/api/v1/folder"
	router.GET(lpath, MetricHandler(lpath, srv.GetFolders))
	lpath = "/api/v1/folder/:fid"
	router.PUT(lpath, MetricHandler(lpath, srv.PutFolder))
	lpath = "/api/v1/folder/:fid/subfolder"
	router.GET(lpath, MetricHandler(lpath, srv.GetSubfolders))
	lpath = "/api/v1/folder/:fid/subfolder/:sfid"
	router.GET(lpath, MetricHandler(lpath, srv.GetSubfolderItems))
	lpath = "/api/v1/folder/:fid/subfolder/:sfid/:cid/:subid"
	router.PUT(lpath, MetricHandler(lpath, srv.PutSubfolderItem))

	// base response
	router.GET("/", GetRoot)

	// memory monitoring, required for us to debug memory usage
	pprof.Register(router, "debug/pprof")

	// prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return srv
}

func (srv *Server) Stop() {
	st.Logger.Info().Msg("stopping simdex restapi")
	if srv.hook != nil {
		if err := srv.hook.Close(); err != nil {
			st.Logger.Err(err).Msg("closing label hook")
		}
	}
	st.Logger.Info().Msg("stopped simdex restapi")
}
