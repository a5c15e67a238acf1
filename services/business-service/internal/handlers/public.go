package handlers

import (
	"net/http"
	"strings"

	"github.com/menulink/menulink/services/business-service/internal/model"
	"github.com/menulink/menulink/services/business-service/internal/storage"
)

// PublicHandler serves the unauthenticated storefront page as JSON; any
// rendering happens client-side.
type PublicHandler struct {
	businesses *storage.BusinessRepository
	catalog    *storage.CatalogRepository
	links      *storage.LinkRepository
}

func NewPublicHandler(businesses *storage.BusinessRepository, catalog *storage.CatalogRepository, links *storage.LinkRepository) *PublicHandler {
	return &PublicHandler{businesses: businesses, catalog: catalog, links: links}
}

type menuSection struct {
	Category string           `json:"category"`
	Items    []model.MenuItem `json:"items"`
}

type pageResponse struct {
	BusinessID string            `json:"business_id"`
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	Timezone   string            `json:"timezone"`
	Phone      string            `json:"phone"`
	Address    string            `json:"address"`
	Hours      map[string]string `json:"hours"`
	Menu       []menuSection     `json:"menu"`
	Services   []model.Service   `json:"services"`
	Links      []model.Link      `json:"links"`
}

// GetPage serves GET /api/v1/public/page?slug=.
func (h *PublicHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(r.URL.Query().Get("slug"))
	if slug == "" {
		writeError(w, http.StatusBadRequest, "slug is required")
		return
	}

	ctx := r.Context()
	b, err := h.businesses.GetBySlug(ctx, slug)
	if err != nil {
		if storage.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "page not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load page")
		return
	}

	items, err := h.catalog.ListMenuItems(ctx, b.ID, 200)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load menu")
		return
	}
	services, err := h.catalog.ListServices(ctx, b.ID, 100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load services")
		return
	}
	linkList, err := h.links.List(ctx, b.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load links")
		return
	}

	// The public page hides anything a customer can't act on.
	activeServices := make([]model.Service, 0, len(services))
	for _, s := range services {
		if s.Active {
			activeServices = append(activeServices, s)
		}
	}

	resp := pageResponse{
		BusinessID: b.ID,
		Name:       b.Name,
		Slug:       b.Slug,
		Timezone:   b.Timezone,
		Phone:      b.Phone,
		Address:    b.Address,
		Hours:      b.Hours,
		Menu:       groupMenu(items),
		Services:   activeServices,
		Links:      linkList,
	}
	if resp.Links == nil {
		resp.Links = []model.Link{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// groupMenu buckets available items by category, preserving the repository's
// category-then-position ordering.
func groupMenu(items []model.MenuItem) []menuSection {
	sections := []menuSection{}
	index := map[string]int{}
	for _, item := range items {
		if !item.Available {
			continue
		}
		category := item.Category
		if category == "" {
			category = "menu"
		}
		i, ok := index[category]
		if !ok {
			i = len(sections)
			index[category] = i
			sections = append(sections, menuSection{Category: category})
		}
		sections[i].Items = append(sections[i].Items, item)
	}
	return sections
}
