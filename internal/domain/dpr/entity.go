package dpr

import (
	"sort"
	"time"
)

// EntityType is the family an extracted fact belongs to.
type EntityType string

const (
	EntityMonetary EntityType = "MONETARY"
	EntityDate     EntityType = "DATE"
	EntityLocation EntityType = "LOCATION"
	EntityResource EntityType = "RESOURCE"
)

// AllEntityTypes lists entity types in canonical order.
var AllEntityTypes = []EntityType{EntityMonetary, EntityDate, EntityLocation, EntityResource}

func (t EntityType) ordinal() int {
	for i, e := range AllEntityTypes {
		if e == t {
			return i
		}
	}
	return len(AllEntityTypes)
}

// Monetary sub-types.
const (
	CostTotal       = "TOTAL_COST"
	CostLabor       = "LABOR_COST"
	CostMaterial    = "MATERIAL_COST"
	CostEquipment   = "EQUIPMENT_COST"
	CostContingency = "CONTINGENCY"
)

// Date sub-types.
const (
	DateStart     = "START_DATE"
	DateEnd       = "END_DATE"
	DateMilestone = "MILESTONE"
	DateApproval  = "APPROVAL_DATE"
)

// SubTypeOther is shared by every family.
const SubTypeOther = "OTHER"

// Resource categories.
const (
	ResourceHuman     = "HUMAN"
	ResourceMaterial  = "MATERIAL"
	ResourceEquipment = "EQUIPMENT"
)

// Location kinds.
const (
	LocationCoordinates = "COORDINATES"
	LocationState       = "STATE"
	LocationDistrict    = "DISTRICT"
	LocationVillage     = "VILLAGE"
	LocationTaluka      = "TALUKA"
	LocationTehsil      = "TEHSIL"
	LocationBlock       = "BLOCK"
	LocationCity        = "CITY"
)

// ExtractedEntity is the flattened form every family reduces to. Position and
// EndPosition are byte offsets into the NFC-normalised text.
type ExtractedEntity struct {
	Type        EntityType `json:"type"`
	Value       string     `json:"value"`
	Confidence  float64    `json:"confidence"`
	Position    int        `json:"position"`
	EndPosition int        `json:"end_position"`
	SubType     string     `json:"sub_type,omitempty"`
}

// MonetaryEntity is an amount of money, normalised to rupees.
type MonetaryEntity struct {
	ExtractedEntity
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// DateEntity is a calendar date.
type DateEntity struct {
	ExtractedEntity
	ParsedDate time.Time `json:"parsed_date"`
}

// LocationEntity is a place name or a coordinate pair.
type LocationEntity struct {
	ExtractedEntity
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`
	HasCoordinates bool    `json:"has_coordinates"`
	LocationKind   string  `json:"location_kind"`
}

// ResourceEntity is a quantity of manpower, material or equipment.
type ResourceEntity struct {
	ExtractedEntity
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// SortEntities orders entities by position, then type, then value.
func SortEntities(es []ExtractedEntity) {
	sort.SliceStable(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if a.Type != b.Type {
			return a.Type.ordinal() < b.Type.ordinal()
		}
		return a.Value < b.Value
	})
}

type entityKey struct {
	pos   int
	value string
}

// DedupEntities drops later entities that repeat an earlier (position, value)
// pair. Order is preserved.
func DedupEntities(es []ExtractedEntity) []ExtractedEntity {
	seen := make(map[entityKey]struct{}, len(es))
	out := es[:0:0]
	for _, e := range es {
		k := entityKey{e.Position, e.Value}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, e)
	}
	return out
}

// EntitiesInSpan returns the entities whose start lies in [start, end).
func EntitiesInSpan(es []ExtractedEntity, start, end int) []ExtractedEntity {
	var out []ExtractedEntity
	for _, e := range es {
		if e.Position >= start && e.Position < end {
			out = append(out, e)
		}
	}
	return out
}

//Personal.AI order the ending
