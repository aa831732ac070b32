package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/render"
	"github.com/creatorhub/linkpage/internal/reorder"
	"github.com/creatorhub/linkpage/internal/security"
)

// sectionPayload is the wire form of any section variant. The sectionType tag
// selects the variant; "text" payloads use title/content/textKind and the
// rest use name/layout/items.
type sectionPayload struct {
	ID                       string        `json:"id"`
	SectionType              string        `json:"sectionType"`
	Name                     string        `json:"name,omitempty"`
	Layout                   string        `json:"layout,omitempty"`
	UseItemImageAsBackground bool          `json:"useItemImageAsBackground,omitempty"`
	Title                    string        `json:"title,omitempty"`
	Content                  string        `json:"content,omitempty"`
	TextKind                 string        `json:"textKind,omitempty"`
	Items                    []itemPayload `json:"items,omitempty"`
}

type itemPayload struct {
	ID               string `json:"id"`
	Title            string `json:"title,omitempty"`
	Price            string `json:"price,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Discount         string `json:"discount,omitempty"`
	CountdownMinutes int    `json:"countdownMinutes,omitempty"`
	CountdownSeconds int    `json:"countdownSeconds,omitempty"`
	URL              string `json:"url,omitempty"`
	IsEmail          bool   `json:"isEmail,omitempty"`
}

type pagePayload struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"displayName,omitempty"`
	Background  string           `json:"background,omitempty"`
	Order       []string         `json:"order"`
	Sections    []sectionPayload `json:"sections"`
}

type reorderPayload struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

type pageUpdatePayload struct {
	DisplayName *string `json:"displayName,omitempty"`
	Background  *string `json:"background,omitempty"`
}

type capturePayload struct {
	SectionID string `json:"sectionId,omitempty"`
	Value     string `json:"value"`
}

// validate rejects URLs that are unsafe to render on the public page.
func (p itemPayload) validate() error {
	if err := security.ValidateLinkURL(p.URL); err != nil {
		return &apiError{http.StatusBadRequest, err.Error()}
	}
	if err := security.ValidateImageURL(p.ImageURL); err != nil {
		return &apiError{http.StatusBadRequest, err.Error()}
	}
	return nil
}

func (p itemPayload) toItem() linkpage.ContentItem {
	return linkpage.ContentItem{
		ID:               p.ID,
		Title:            p.Title,
		Price:            p.Price,
		ImageURL:         p.ImageURL,
		Discount:         p.Discount,
		CountdownMinutes: clampCountdownField(p.CountdownMinutes),
		CountdownSeconds: clampCountdownField(p.CountdownSeconds),
		URL:              p.URL,
		IsEmail:          p.IsEmail,
	}
}

// clampCountdownField keeps edited countdown values inside the MM:SS range,
// matching the clamp the file parser applies.
func clampCountdownField(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 59:
		return 59
	}
	return v
}

func itemPayloadOf(it linkpage.ContentItem) itemPayload {
	return itemPayload{
		ID:               it.ID,
		Title:            it.Title,
		Price:            it.Price,
		ImageURL:         it.ImageURL,
		Discount:         it.Discount,
		CountdownMinutes: it.CountdownMinutes,
		CountdownSeconds: it.CountdownSeconds,
		URL:              it.URL,
		IsEmail:          it.IsEmail,
	}
}

// toSection converts a payload into a section variant. Unknown sectionType or
// layout tags are rejected here so invalid variants never reach the page.
func (p sectionPayload) toSection() (linkpage.Section, error) {
	for _, it := range p.Items {
		if err := it.validate(); err != nil {
			return nil, err
		}
	}
	switch p.SectionType {
	case "exclusive":
		ex := &linkpage.ExclusiveContent{}
		for _, it := range p.Items {
			ex.Items = append(ex.Items, it.toItem())
		}
		return ex, nil
	case string(linkpage.KindLinks), string(linkpage.KindEmbeds), string(linkpage.KindUnlockContent):
		layout := linkpage.LayoutList
		if p.Layout != "" {
			var ok bool
			layout, ok = linkpage.ParseLayout(p.Layout)
			if !ok {
				return nil, &apiError{http.StatusBadRequest, "unknown layout: " + p.Layout}
			}
		}
		kind, ok := linkpage.ParseSectionKind(p.SectionType)
		if !ok {
			return nil, &apiError{http.StatusBadRequest, "unknown sectionType: " + p.SectionType}
		}
		sec := &linkpage.CustomSection{
			ID:                       p.ID,
			Name:                     p.Name,
			Layout:                   layout,
			Kind:                     kind,
			UseItemImageAsBackground: p.UseItemImageAsBackground,
		}
		for _, it := range p.Items {
			sec.Items = append(sec.Items, it.toItem())
		}
		return sec, nil
	case "text":
		kind := linkpage.TextPlain
		if p.TextKind == string(linkpage.TextEmail) {
			kind = linkpage.TextEmail
		}
		return &linkpage.TextSection{ID: p.ID, Title: p.Title, Content: p.Content, Kind: kind}, nil
	default:
		return nil, &apiError{http.StatusBadRequest, "unknown sectionType: " + p.SectionType}
	}
}

func sectionPayloadOf(sec linkpage.Section) sectionPayload {
	switch s := sec.(type) {
	case *linkpage.ExclusiveContent:
		p := sectionPayload{ID: linkpage.ExclusiveContentID, SectionType: "exclusive"}
		for _, it := range s.Items {
			p.Items = append(p.Items, itemPayloadOf(it))
		}
		return p
	case *linkpage.CustomSection:
		p := sectionPayload{
			ID:                       s.ID,
			SectionType:              string(s.Kind),
			Name:                     s.Name,
			Layout:                   string(s.Layout),
			UseItemImageAsBackground: s.UseItemImageAsBackground,
		}
		for _, it := range s.Items {
			p.Items = append(p.Items, itemPayloadOf(it))
		}
		return p
	case *linkpage.TextSection:
		return sectionPayload{
			ID:          s.ID,
			SectionType: "text",
			Title:       s.Title,
			Content:     s.Content,
			TextKind:    string(s.Kind),
		}
	default:
		return sectionPayload{ID: sec.SectionID()}
	}
}

// apiError carries an HTTP status through handler helpers.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

// registerAPIRoutes mounts the REST endpoints on mux.
func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/page", s.handleGetPage)
	mux.HandleFunc("PUT /api/page", s.handleUpdatePage)
	mux.HandleFunc("GET /api/tree", s.handleGetTree)

	mux.HandleFunc("POST /api/sections", s.handleAddSection)
	mux.HandleFunc("PUT /api/sections/{id}", s.handleUpdateSection)
	mux.HandleFunc("DELETE /api/sections/{id}", s.handleDeleteSection)
	mux.HandleFunc("POST /api/sections/reorder", s.handleReorderSections)

	mux.HandleFunc("POST /api/sections/{id}/items", s.handleAddItem)
	mux.HandleFunc("PUT /api/sections/{id}/items/{itemID}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /api/sections/{id}/items/{itemID}", s.handleDeleteItem)
	mux.HandleFunc("POST /api/sections/{id}/items/reorder", s.handleReorderItems)

	mux.HandleFunc("POST /api/capture", s.handleCapture)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p := s.composer.Page()

	payload := pagePayload{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Background:  p.Background,
	}
	for _, sec := range p.OrderedSections() {
		payload.Order = append(payload.Order, sec.SectionID())
		payload.Sections = append(payload.Sections, sectionPayloadOf(sec))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	var payload pageUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if payload.DisplayName != nil {
		s.composer.SetDisplayName(*payload.DisplayName)
	}
	if payload.Background != nil {
		s.composer.SetBackground(*payload.Background)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.composer.Snapshot())
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var payload sectionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sec, err := payload.toSection()
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if err := s.composer.AddSection(sec); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sectionPayloadOf(sec))
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var payload sectionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload.ID = r.PathValue("id")
	sec, err := payload.toSection()
	if err != nil {
		writeAPIError(w, err)
		return
	}
	if err := s.composer.UpdateSection(sec); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sectionPayloadOf(sec))
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := s.composer.DeleteSection(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	var payload reorderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	moved := s.composer.DragEnd(reorder.SectionScope, payload.ActiveID, payload.OverID)
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := payload.validate(); err != nil {
		writeAPIError(w, err)
		return
	}
	sectionID := r.PathValue("id")
	if err := s.composer.AddItem(sectionID, payload.toItem()); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload itemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload.ID = r.PathValue("itemID")
	if err := payload.validate(); err != nil {
		writeAPIError(w, err)
		return
	}
	sectionID := r.PathValue("id")
	if err := s.composer.UpdateItem(sectionID, payload.toItem()); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.composer.DeleteItem(r.PathValue("id"), r.PathValue("itemID")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request) {
	var payload reorderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	scope := reorder.ItemScope(r.PathValue("id"))
	moved := s.composer.DragEnd(scope, payload.ActiveID, payload.OverID)
	writeJSON(w, http.StatusOK, map[string]bool{"moved": moved})
}

// handleCapture validates an email-capture submission. The page's capture
// block navigates to a mailto link client-side, so the server only confirms
// the value is acceptable and notifies the page owner.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var payload capturePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	value, ok := render.NormalizeCaptureInput(payload.Value)
	if !ok {
		writeError(w, http.StatusBadRequest, "value must not be empty")
		return
	}
	s.notifyCapture(payload.SectionID, value)
	writeJSON(w, http.StatusOK, map[string]string{"value": value})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		log.Printf("[API] Error encoding error response: %v", err)
	}
}

func writeAPIError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apiError); ok {
		writeError(w, apiErr.status, apiErr.message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
