package entity

import "encoding/json"

// TreeNode is the JSON shape of one hierarchy node in the exported
// snapshot. Children are nested under their parent so the output reads as
// the spatial tree, with sensors and objects inline.
type TreeNode struct {
	URI        string            `json:"uri"`
	Kind       Kind              `json:"kind"`
	UnitKind   UnitKind          `json:"unit_kind,omitempty"`
	Label      string            `json:"label,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*TreeNode       `json:"children,omitempty"`
}

// Snapshot is the serializable form of a full hierarchy: the spatial
// trees rooted at buildings, plus the cross-cutting gateway links and the
// node counts.
type Snapshot struct {
	Buildings    []*TreeNode `json:"buildings"`
	GatewayLinks [][2]string `json:"gateway_links,omitempty"`
	Counts       Counts      `json:"counts"`
}

// Export renders the hierarchy as a nested snapshot suitable for the
// transformed-data JSON output.
func (h *Hierarchy) Export() *Snapshot {
	snap := &Snapshot{
		GatewayLinks: h.gwLinks,
		Counts:       h.Counts(),
	}
	for _, uri := range h.buildingOrder {
		snap.Buildings = append(snap.Buildings, h.exportNode(uri))
	}
	return snap
}

// MarshalJSON serializes the hierarchy via its snapshot.
func (h *Hierarchy) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Export())
}

func (h *Hierarchy) exportNode(uri string) *TreeNode {
	node := &TreeNode{URI: uri}
	switch h.kinds[uri] {
	case KindBuilding:
		b := h.buildings[uri]
		node.Kind = KindBuilding
		node.Label = b.Label
		node.Attributes = nonEmpty(map[string]string{
			"code": b.Code,
		})
		if addr := h.addresses[b.AddressURI]; addr != nil {
			node.Children = append(node.Children, h.exportNode(addr.URI))
		}
	case KindAddress:
		a := h.addresses[uri]
		node.Kind = KindAddress
		node.Attributes = nonEmpty(map[string]string{
			"street_name":   a.StreetName,
			"street_number": a.StreetNumber,
			"postal_code":   a.PostalCode,
		})
	case KindSpatialUnit:
		u := h.spatialUnits[uri]
		node.Kind = KindSpatialUnit
		node.UnitKind = u.Kind
		node.Label = u.Label
		node.Attributes = nonEmpty(map[string]string{
			"code": u.Code,
		})
	case KindPhysicalObject:
		p := h.physicalObjects[uri]
		node.Kind = KindPhysicalObject
		node.Label = p.Label
		node.Attributes = nonEmpty(map[string]string{
			"code":        p.Code,
			"description": p.Description,
		})
	case KindSensor:
		s := h.sensors[uri]
		node.Kind = KindSensor
		node.Attributes = nonEmpty(map[string]string{
			"sensor_uid":        s.SensorUID,
			"sensor_id":         s.SensorID,
			"sensor_type":       s.SensorType,
			"vendor_name":       s.VendorName,
			"installation_date": s.InstallationDate,
		})
	case KindGateway:
		g := h.gateways[uri]
		node.Kind = KindGateway
		node.Label = g.Label
		node.Attributes = nonEmpty(map[string]string{
			"gateway_uid": g.GatewayUID,
		})
	case KindMeasurement:
		m := h.measurements[uri]
		node.Kind = KindMeasurement
		node.Attributes = nonEmpty(map[string]string{
			"property":      m.Property,
			"unit":          m.Unit,
			"time_interval": m.TimeInterval,
		})
	case KindTimeInterval:
		t := h.intervals[uri]
		node.Kind = KindTimeInterval
		node.Attributes = nonEmpty(map[string]string{
			"duration": t.Duration,
		})
	}
	for _, child := range h.children[uri] {
		node.Children = append(node.Children, h.exportNode(child))
	}
	return node
}

func nonEmpty(attrs map[string]string) map[string]string {
	for k, v := range attrs {
		if v == "" {
			delete(attrs, k)
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
