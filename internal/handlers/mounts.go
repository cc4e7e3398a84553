package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/JustinWhittecar/mekmount/internal/unit"
)

// UnitView is what the inspection API serves for one unit. Views are copies
// taken between phases, so handlers never touch a unit the simulation owns.
type UnitView struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Round       int                `json:"round"`
	ShutDown    bool               `json:"shutDown"`
	WeaponHeat  int                `json:"weaponHeat"`
	Mounts      []unit.MountStatus `json:"mounts"`
	PublishedAt time.Time          `json:"publishedAt"`
}

// UnitSummary is one entry of GET /units.
type UnitSummary struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Round  int       `json:"round"`
	Mounts int       `json:"mounts"`
}

// Board holds the latest published view of each live unit.
type Board struct {
	views cmap.ConcurrentMap[string, UnitView]
}

func NewBoard() *Board {
	return &Board{views: cmap.New[UnitView]()}
}

// Publish records the current state of u. Call it from the goroutine that
// drives u.
func (b *Board) Publish(u *unit.Unit, round int) {
	b.views.Set(u.ID().String(), UnitView{
		ID:          u.ID(),
		Name:        u.Name(),
		Round:       round,
		ShutDown:    u.IsShutDown(),
		WeaponHeat:  u.WeaponHeat(),
		Mounts:      u.Status(),
		PublishedAt: time.Now().UTC(),
	})
}

func (b *Board) Remove(id uuid.UUID) { b.views.Remove(id.String()) }

func (b *Board) View(id uuid.UUID) (UnitView, bool) { return b.views.Get(id.String()) }

// Views returns every published view ordered by name.
func (b *Board) Views() []UnitView {
	out := make([]UnitView, 0, b.views.Count())
	for _, v := range b.views.Items() {
		out = append(out, v)
	}
	slices.SortFunc(out, func(x, y UnitView) int {
		if c := strings.Compare(x.Name, y.Name); c != 0 {
			return c
		}
		return strings.Compare(x.ID.String(), y.ID.String())
	})
	return out
}

type MountsHandler struct {
	Board *Board
}

func (h *MountsHandler) List(w http.ResponseWriter, r *http.Request) {
	units := []UnitSummary{}
	for _, v := range h.Board.Views() {
		units = append(units, UnitSummary{ID: v.ID, Name: v.Name, Round: v.Round, Mounts: len(v.Mounts)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(units)
}

func (h *MountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, ok := h.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *MountsHandler) Mounts(w http.ResponseWriter, r *http.Request) {
	v, ok := h.lookup(w, r)
	if !ok {
		return
	}

	mounts := v.Mounts
	if k := r.URL.Query().Get("kind"); k != "" {
		mounts = slices.DeleteFunc(slices.Clone(mounts), func(m unit.MountStatus) bool { return m.Kind != k })
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mounts)
}

func (h *MountsHandler) lookup(w http.ResponseWriter, r *http.Request) (UnitView, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return UnitView{}, false
	}
	v, ok := h.Board.View(id)
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return UnitView{}, false
	}
	return v, true
}

// Register wires the inspection routes onto mux.
func (h *MountsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/units", h.List)
	mux.HandleFunc("GET /api/units/{id}", h.Get)
	mux.HandleFunc("GET /api/units/{id}/mounts", h.Mounts)
}
