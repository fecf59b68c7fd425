package restapi

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simdex/simdex/label"
	st "github.com/simdex/simdex/settings"
)

// PutLabel stores one judgement about a pair of content ids. The request
// body holds the coreference value: -1 (distinct), 0 (undecided) or 1
// (same). Optional query parameters subtopic_id1 and subtopic_id2 narrow the
// judgement. Existing labels for the same pair, subtopics and annotator are
// overwritten.
func (srv *Server) PutLabel(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		JSONError(c, 500, "couldn't read request body", err)
		return
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || value < -1 || value > 1 {
		JSONError(c, 400, "label value must be -1, 0 or 1", fmt.Errorf("got %q", string(raw)))
		return
	}

	l := label.NewWithSubtopics(
		c.Param("cid1"), c.Param("cid2"),
		c.Query("subtopic_id1"), c.Query("subtopic_id2"),
		c.Param("annotator"), label.CorefValue(value),
	)
	if err := srv.labels.Put(c.Request.Context(), l); err != nil {
		JSONError(c, 500, "label put failed", err)
		return
	}
	if srv.hook != nil {
		// delivery is best effort, the label is already stored
		if err := srv.hook.Publish(l); err != nil {
			st.Logger.Warn().Err(err).Str("cid1", l.CID1).Str("cid2", l.CID2).Msg("label hook publish failed")
		}
	}
	c.Status(201)
}

// GetLabelsDirect returns every label touching a content id.
func (srv *Server) GetLabelsDirect(c *gin.Context) {
	labels, err := srv.labels.DirectlyConnected(c.Request.Context(), c.Param("cid"))
	if err != nil {
		JSONError(c, 500, "label fetch failed", err)
		return
	}
	writeJSON(c, 200, labels)
}

// GetLabelsConnected returns the connected component of a content id over
// positive labels.
func (srv *Server) GetLabelsConnected(c *gin.Context) {
	labels, err := srv.labels.ConnectedComponent(c.Request.Context(), c.Param("cid"))
	if err != nil {
		JSONError(c, 500, "label fetch failed", err)
		return
	}
	writeJSON(c, 200, labels)
}
