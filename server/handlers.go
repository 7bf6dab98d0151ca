package server

import (
	"encoding/json"
	"image"
	"net/http"

	"github.com/canvix/canvix"
	"github.com/canvix/canvix/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	CreateCanvasRequest struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Background string `json:"background,omitempty"`
	}

	CreateCanvasResponse struct {
		ID string `json:"id"`
	}

	CanvasResponse struct {
		ID       string          `json:"id"`
		Width    int             `json:"width"`
		Height   int             `json:"height"`
		Layers   []LayerResponse `json:"layers"`
		Selected string          `json:"selected,omitempty"`
	}

	AddLayerRequest struct {
		Src     string   `json:"src"`
		X       int      `json:"x"`
		Y       int      `json:"y"`
		Opacity *float64 `json:"opacity,omitempty"`
		Filter  string   `json:"filter,omitempty"`
		Sigma   float64  `json:"sigma,omitempty"`
		Blend   string   `json:"blend,omitempty"`
		Fit     bool     `json:"fit,omitempty"`
	}

	LayerResponse struct {
		ID     string `json:"id"`
		Source string `json:"source,omitempty"`
		X      int    `json:"x"`
		Y      int    `json:"y"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}

	ReorderRequest struct {
		Op string `json:"op"`
	}

	ExportResponse struct {
		DataURL string `json:"data_url"`
	}

	CreateSnapshotResponse struct {
		ID string `json:"id"`
	}
)

func (s *Server) handleCreateCanvas(w http.ResponseWriter, r *http.Request) {
	var req CreateCanvasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	opts := []canvix.Option{}
	if req.Background != "" {
		col, err := canvix.ParseHexColor(req.Background)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, canvix.WithBackground(col))
	}

	c, err := canvix.NewCanvas(req.Width, req.Height, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := s.addCanvas(c)
	logrus.WithFields(logrus.Fields{
		"canvas_id": id,
		"width":     req.Width,
		"height":    req.Height,
	}).Info("Canvas created")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreateCanvasResponse{ID: id})
}

func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	resp := CanvasResponse{
		ID:     id,
		Width:  c.Width(),
		Height: c.Height(),
		Layers: []LayerResponse{},
	}
	for _, l := range c.Layers() {
		resp.Layers = append(resp.Layers, LayerResponse{
			ID:     l.ID(),
			Source: l.Source(),
			X:      l.Offset().X,
			Y:      l.Offset().Y,
			Width:  l.Bounds().Dx(),
			Height: l.Bounds().Dy(),
		})
	}
	if sel := c.Selected(); sel != nil {
		resp.Selected = sel.ID()
	}

	render.JSON(w, r, resp)
}

func (s *Server) handleAddLayer(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	var req AddLayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	l, err := c.AddImageLayer(r.Context(), req.Src)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"canvas_id": id,
			"error":     err,
		}).Error("Failed to add layer")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l.SetOffset(image.Pt(req.X, req.Y))
	if req.Opacity != nil {
		l.SetOpacity(*req.Opacity)
	}
	// A rejected request must not leave the layer on the canvas.
	if req.Filter != "" {
		if err := l.SetFilter(req.Filter, req.Sigma); err != nil {
			c.RemoveLayer(l.ID())
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Blend != "" {
		if err := l.SetBlendMode(req.Blend); err != nil {
			c.RemoveLayer(l.ID())
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Fit {
		l.FitTo(c.Width(), c.Height())
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, LayerResponse{
		ID:     l.ID(),
		Source: l.Source(),
		X:      l.Offset().X,
		Y:      l.Offset().Y,
		Width:  l.Bounds().Dx(),
		Height: l.Bounds().Dy(),
	})
}

func (s *Server) handleSelectLayer(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	if err := c.Select(chi.URLParam(r, "layerID")); err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) handleReorderLayer(w http.ResponseWriter, r *http.Request) {
	c, _, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	if err := c.Select(chi.URLParam(r, "layerID")); err != nil {
		http.Error(w, "Layer not found", http.StatusNotFound)
		return
	}

	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch req.Op {
	case "forward":
		c.BringForward()
	case "front":
		c.BringToFront()
	case "backward":
		c.SendBackward()
	case "back":
		c.SendToBack()
	default:
		http.Error(w, "Unsupported reorder operation", http.StatusBadRequest)
		return
	}
	render.NoContent(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	blob, err := c.Blob()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"canvas_id": id,
			"error":     err,
		}).Error("Failed to export canvas")
		http.Error(w, "Failed to export the canvas", http.StatusInternalServerError)
		return
	}

	if r.URL.Query().Get("format") == "dataurl" {
		render.JSON(w, r, ExportResponse{DataURL: canvix.EncodeDataURL(blob)})
		return
	}

	w.Header().Set("Content-Type", blob.MIME)
	w.WriteHeader(http.StatusOK)
	w.Write(blob.Data)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	blob, err := c.Blob()
	if err != nil {
		http.Error(w, "Failed to export the canvas", http.StatusInternalServerError)
		return
	}

	snapID, err := s.store.Save(r.Context(), &store.Snapshot{
		CanvasID: id,
		MIME:     blob.MIME,
		Data:     blob.Data,
	})
	if err != nil {
		logrus.WithField("error", err).Error("Failed to save snapshot")
		http.Error(w, "Failed to save the snapshot", http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CreateSnapshotResponse{ID: snapID})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	_, id, ok := s.canvasFromRequest(w, r)
	if !ok {
		return
	}

	snaps, err := s.store.List(r.Context(), id)
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list snapshots")
		http.Error(w, "Failed to list the snapshots", http.StatusInternalServerError)
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}

	render.JSON(w, r, snaps)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Find(r.Context(), chi.URLParam(r, "snapshotID"))
	if err != nil {
		if err == store.ErrNotFound {
			http.Error(w, "Snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve the snapshot", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", snap.MIME)
	w.WriteHeader(http.StatusOK)
	w.Write(snap.Data)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "snapshotID")); err != nil {
		if err == store.ErrNotFound {
			http.Error(w, "Snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete the snapshot", http.StatusInternalServerError)
		return
	}
	render.NoContent(w, r)
}
