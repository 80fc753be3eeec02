package entity

import (
	"sort"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

// Hierarchy is the identity-keyed union of the entities extracted from a
// record set. Each resolved identity URI owns exactly one node; repeated
// contributions merge into that node attribute by attribute. Parent-child
// containment and gateway-sensor connectivity are kept as URI references
// so traversal order and deduplication stay deterministic.
type Hierarchy struct {
	buildings       map[string]*Building
	addresses       map[string]*Address
	spatialUnits    map[string]*SpatialUnit
	physicalObjects map[string]*PhysicalObject
	sensors         map[string]*Sensor
	gateways        map[string]*Gateway
	measurements    map[string]*Measurement
	intervals       map[string]*TimeInterval

	buildingOrder []string
	addressOrder  []string
	unitOrder     []string
	objectOrder   []string
	sensorOrder   []string
	gatewayOrder  []string
	measureOrder  []string
	intervalOrder []string

	children   map[string][]string
	childSet   map[string]map[string]struct{}
	kinds      map[string]Kind
	gwLinks    [][2]string // [gateway URI, sensor URI]
	gwLinkSeen map[[2]string]struct{}

	lastWriteWins bool
}

// NewHierarchy returns an empty hierarchy. When lastWriteWins is false,
// merging two different non-empty values for the same attribute of the
// same identity is a conflict.
func NewHierarchy(lastWriteWins bool) *Hierarchy {
	return &Hierarchy{
		buildings:       make(map[string]*Building),
		addresses:       make(map[string]*Address),
		spatialUnits:    make(map[string]*SpatialUnit),
		physicalObjects: make(map[string]*PhysicalObject),
		sensors:         make(map[string]*Sensor),
		gateways:        make(map[string]*Gateway),
		measurements:    make(map[string]*Measurement),
		intervals:       make(map[string]*TimeInterval),
		children:        make(map[string][]string),
		childSet:        make(map[string]map[string]struct{}),
		kinds:           make(map[string]Kind),
		gwLinkSeen:      make(map[[2]string]struct{}),
		lastWriteWins:   lastWriteWins,
	}
}

// fieldMerge pairs one attribute of a stored node with the incoming
// value for it.
type fieldMerge struct {
	dst  *string
	src  string
	attr string
}

// mergeFields unifies attributes one by one. An empty incoming value
// never overwrites; an empty existing value is filled; two different
// non-empty values conflict unless last-write-wins is enabled. With
// apply false, values are only compared, never written, so the same
// field tables serve both the Add and the Check methods.
func (h *Hierarchy) mergeFields(identity string, apply bool, fields []fieldMerge) error {
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		if *f.dst == "" || *f.dst == f.src || h.lastWriteWins {
			if apply {
				*f.dst = f.src
			}
			continue
		}
		return errors.NewConflictError(identity, f.attr)
	}
	return nil
}

func buildingFields(cur, b *Building) []fieldMerge {
	return []fieldMerge{
		{&cur.Code, b.Code, "code"},
		{&cur.Label, b.Label, "label"},
		{&cur.AddressURI, b.AddressURI, "address"},
	}
}

func addressFields(cur, a *Address) []fieldMerge {
	return []fieldMerge{
		{&cur.StreetName, a.StreetName, "streetName"},
		{&cur.StreetNumber, a.StreetNumber, "streetNumber"},
		{&cur.PostalCode, a.PostalCode, "postalCode"},
	}
}

func spatialUnitFields(cur, u *SpatialUnit) []fieldMerge {
	return []fieldMerge{
		{&cur.Code, u.Code, "code"},
		{&cur.Label, u.Label, "label"},
		{&cur.ParentURI, u.ParentURI, "parent"},
	}
}

func physicalObjectFields(cur, p *PhysicalObject) []fieldMerge {
	return []fieldMerge{
		{&cur.Code, p.Code, "code"},
		{&cur.Label, p.Label, "label"},
		{&cur.Description, p.Description, "description"},
		{&cur.ParentURI, p.ParentURI, "parent"},
	}
}

func sensorFields(cur, s *Sensor) []fieldMerge {
	return []fieldMerge{
		{&cur.SensorUID, s.SensorUID, "sensorUID"},
		{&cur.SensorID, s.SensorID, "sensorId"},
		{&cur.SensorType, s.SensorType, "sensorType"},
		{&cur.VendorName, s.VendorName, "vendorName"},
		{&cur.InstallationDate, s.InstallationDate, "installationDate"},
		{&cur.ParentURI, s.ParentURI, "parent"},
	}
}

func gatewayFields(cur, g *Gateway) []fieldMerge {
	return []fieldMerge{
		{&cur.GatewayUID, g.GatewayUID, "gatewayUID"},
		{&cur.Label, g.Label, "label"},
		{&cur.ParentURI, g.ParentURI, "parent"},
	}
}

func measurementFields(cur, m *Measurement) []fieldMerge {
	return []fieldMerge{
		{&cur.SensorURI, m.SensorURI, "sensor"},
		{&cur.Property, m.Property, "property"},
		{&cur.SensorType, m.SensorType, "sensorType"},
		{&cur.Unit, m.Unit, "unit"},
		{&cur.IntervalURI, m.IntervalURI, "interval"},
		{&cur.TimeInterval, m.TimeInterval, "timeInterval"},
	}
}

func timeIntervalFields(cur, t *TimeInterval) []fieldMerge {
	return []fieldMerge{
		{&cur.Duration, t.Duration, "duration"},
	}
}

// AddBuilding inserts or merges a building and returns the canonical node.
func (h *Hierarchy) AddBuilding(b *Building) (*Building, error) {
	if cur, ok := h.buildings[b.URI]; ok {
		if err := h.mergeFields(b.URI, true, buildingFields(cur, b)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *b
	h.buildings[b.URI] = &node
	h.buildingOrder = append(h.buildingOrder, b.URI)
	h.kinds[b.URI] = KindBuilding
	return &node, nil
}

// CheckBuilding reports whether merging b would conflict, without
// changing the hierarchy.
func (h *Hierarchy) CheckBuilding(b *Building) error {
	if cur, ok := h.buildings[b.URI]; ok {
		return h.mergeFields(b.URI, false, buildingFields(cur, b))
	}
	return nil
}

// AddAddress inserts or merges an address.
func (h *Hierarchy) AddAddress(a *Address) (*Address, error) {
	if cur, ok := h.addresses[a.URI]; ok {
		if err := h.mergeFields(a.URI, true, addressFields(cur, a)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *a
	h.addresses[a.URI] = &node
	h.addressOrder = append(h.addressOrder, a.URI)
	h.kinds[a.URI] = KindAddress
	return &node, nil
}

// CheckAddress reports whether merging a would conflict.
func (h *Hierarchy) CheckAddress(a *Address) error {
	if cur, ok := h.addresses[a.URI]; ok {
		return h.mergeFields(a.URI, false, addressFields(cur, a))
	}
	return nil
}

// AddSpatialUnit inserts or merges a spatial unit. The unit kind is part
// of the node's identity in practice (the resolver keys on it), so two
// contributions with the same URI but different kinds conflict.
func (h *Hierarchy) AddSpatialUnit(u *SpatialUnit) (*SpatialUnit, error) {
	if cur, ok := h.spatialUnits[u.URI]; ok {
		if err := h.checkUnitKind(cur, u); err != nil {
			return nil, err
		}
		if err := h.mergeFields(u.URI, true, spatialUnitFields(cur, u)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *u
	h.spatialUnits[u.URI] = &node
	h.unitOrder = append(h.unitOrder, u.URI)
	h.kinds[u.URI] = KindSpatialUnit
	return &node, nil
}

// CheckSpatialUnit reports whether merging u would conflict.
func (h *Hierarchy) CheckSpatialUnit(u *SpatialUnit) error {
	cur, ok := h.spatialUnits[u.URI]
	if !ok {
		return nil
	}
	if err := h.checkUnitKind(cur, u); err != nil {
		return err
	}
	return h.mergeFields(u.URI, false, spatialUnitFields(cur, u))
}

func (h *Hierarchy) checkUnitKind(cur, u *SpatialUnit) error {
	if u.Kind != "" && cur.Kind != u.Kind && !h.lastWriteWins {
		return errors.NewConflictError(u.URI, "kind")
	}
	return nil
}

// AddPhysicalObject inserts or merges a physical object.
func (h *Hierarchy) AddPhysicalObject(p *PhysicalObject) (*PhysicalObject, error) {
	if cur, ok := h.physicalObjects[p.URI]; ok {
		if err := h.mergeFields(p.URI, true, physicalObjectFields(cur, p)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *p
	h.physicalObjects[p.URI] = &node
	h.objectOrder = append(h.objectOrder, p.URI)
	h.kinds[p.URI] = KindPhysicalObject
	return &node, nil
}

// CheckPhysicalObject reports whether merging p would conflict.
func (h *Hierarchy) CheckPhysicalObject(p *PhysicalObject) error {
	if cur, ok := h.physicalObjects[p.URI]; ok {
		return h.mergeFields(p.URI, false, physicalObjectFields(cur, p))
	}
	return nil
}

// AddSensor inserts or merges a sensor.
func (h *Hierarchy) AddSensor(s *Sensor) (*Sensor, error) {
	if cur, ok := h.sensors[s.URI]; ok {
		if err := h.mergeFields(s.URI, true, sensorFields(cur, s)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *s
	h.sensors[s.URI] = &node
	h.sensorOrder = append(h.sensorOrder, s.URI)
	h.kinds[s.URI] = KindSensor
	return &node, nil
}

// CheckSensor reports whether merging s would conflict.
func (h *Hierarchy) CheckSensor(s *Sensor) error {
	if cur, ok := h.sensors[s.URI]; ok {
		return h.mergeFields(s.URI, false, sensorFields(cur, s))
	}
	return nil
}

// AddGateway inserts or merges a gateway.
func (h *Hierarchy) AddGateway(g *Gateway) (*Gateway, error) {
	if cur, ok := h.gateways[g.URI]; ok {
		if err := h.mergeFields(g.URI, true, gatewayFields(cur, g)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *g
	h.gateways[g.URI] = &node
	h.gatewayOrder = append(h.gatewayOrder, g.URI)
	h.kinds[g.URI] = KindGateway
	return &node, nil
}

// CheckGateway reports whether merging g would conflict.
func (h *Hierarchy) CheckGateway(g *Gateway) error {
	if cur, ok := h.gateways[g.URI]; ok {
		return h.mergeFields(g.URI, false, gatewayFields(cur, g))
	}
	return nil
}

// AddMeasurement inserts or merges a measurement.
func (h *Hierarchy) AddMeasurement(m *Measurement) (*Measurement, error) {
	if cur, ok := h.measurements[m.URI]; ok {
		if err := h.mergeFields(m.URI, true, measurementFields(cur, m)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *m
	h.measurements[m.URI] = &node
	h.measureOrder = append(h.measureOrder, m.URI)
	h.kinds[m.URI] = KindMeasurement
	return &node, nil
}

// CheckMeasurement reports whether merging m would conflict.
func (h *Hierarchy) CheckMeasurement(m *Measurement) error {
	if cur, ok := h.measurements[m.URI]; ok {
		return h.mergeFields(m.URI, false, measurementFields(cur, m))
	}
	return nil
}

// AddTimeInterval inserts or merges a time interval.
func (h *Hierarchy) AddTimeInterval(t *TimeInterval) (*TimeInterval, error) {
	if cur, ok := h.intervals[t.URI]; ok {
		if err := h.mergeFields(t.URI, true, timeIntervalFields(cur, t)); err != nil {
			return nil, err
		}
		return cur, nil
	}
	node := *t
	h.intervals[t.URI] = &node
	h.intervalOrder = append(h.intervalOrder, t.URI)
	h.kinds[t.URI] = KindTimeInterval
	return &node, nil
}

// CheckTimeInterval reports whether merging t would conflict.
func (h *Hierarchy) CheckTimeInterval(t *TimeInterval) error {
	if cur, ok := h.intervals[t.URI]; ok {
		return h.mergeFields(t.URI, false, timeIntervalFields(cur, t))
	}
	return nil
}

// AttachChild records a containment edge from parent to child. Attaching
// the same pair again is a no-op, so re-processing a record never
// duplicates an edge.
func (h *Hierarchy) AttachChild(parentURI, childURI string) {
	if parentURI == "" || childURI == "" || parentURI == childURI {
		return
	}
	set, ok := h.childSet[parentURI]
	if !ok {
		set = make(map[string]struct{})
		h.childSet[parentURI] = set
	}
	if _, dup := set[childURI]; dup {
		return
	}
	set[childURI] = struct{}{}
	h.children[parentURI] = append(h.children[parentURI], childURI)
}

// Children returns the child identities of parentURI in attachment order.
func (h *Hierarchy) Children(parentURI string) []string {
	return h.children[parentURI]
}

// LinkGatewaySensor records a gateway-sensor connection, once per pair.
func (h *Hierarchy) LinkGatewaySensor(gatewayURI, sensorURI string) {
	if gatewayURI == "" || sensorURI == "" {
		return
	}
	key := [2]string{gatewayURI, sensorURI}
	if _, dup := h.gwLinkSeen[key]; dup {
		return
	}
	h.gwLinkSeen[key] = struct{}{}
	h.gwLinks = append(h.gwLinks, key)
}

// GatewayLinks returns all gateway-sensor pairs in insertion order.
func (h *Hierarchy) GatewayLinks() [][2]string {
	return h.gwLinks
}

// KindOf reports the entity kind owning uri, if any.
func (h *Hierarchy) KindOf(uri string) (Kind, bool) {
	k, ok := h.kinds[uri]
	return k, ok
}

// Lookup accessors. Each returns the canonical node or nil.

func (h *Hierarchy) Building(uri string) *Building             { return h.buildings[uri] }
func (h *Hierarchy) Address(uri string) *Address               { return h.addresses[uri] }
func (h *Hierarchy) SpatialUnit(uri string) *SpatialUnit       { return h.spatialUnits[uri] }
func (h *Hierarchy) PhysicalObject(uri string) *PhysicalObject { return h.physicalObjects[uri] }
func (h *Hierarchy) Sensor(uri string) *Sensor                 { return h.sensors[uri] }
func (h *Hierarchy) Gateway(uri string) *Gateway               { return h.gateways[uri] }
func (h *Hierarchy) Measurement(uri string) *Measurement       { return h.measurements[uri] }
func (h *Hierarchy) TimeInterval(uri string) *TimeInterval     { return h.intervals[uri] }

// Ordered traversal accessors. Each yields nodes in first-insertion order
// so a full pipeline run over the same input produces the same sequence.

func (h *Hierarchy) Buildings() []*Building {
	out := make([]*Building, 0, len(h.buildingOrder))
	for _, uri := range h.buildingOrder {
		out = append(out, h.buildings[uri])
	}
	return out
}

func (h *Hierarchy) Addresses() []*Address {
	out := make([]*Address, 0, len(h.addressOrder))
	for _, uri := range h.addressOrder {
		out = append(out, h.addresses[uri])
	}
	return out
}

// SpatialUnits returns units ordered coarsest to finest: primarily by
// depth below their building, secondarily by insertion order. Extraction
// already inserts parents before children, but depth ordering holds even
// when records arrive finest-first.
func (h *Hierarchy) SpatialUnits() []*SpatialUnit {
	type ranked struct {
		unit  *SpatialUnit
		depth int
		pos   int
	}
	out := make([]ranked, 0, len(h.unitOrder))
	for i, uri := range h.unitOrder {
		out = append(out, ranked{h.spatialUnits[uri], h.depth(uri), i})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].depth != out[j].depth {
			return out[i].depth < out[j].depth
		}
		return out[i].pos < out[j].pos
	})
	units := make([]*SpatialUnit, len(out))
	for i, r := range out {
		units[i] = r.unit
	}
	return units
}

// depth counts parent hops from uri to a building root, capped to guard
// against malformed parent references.
func (h *Hierarchy) depth(uri string) int {
	d := 0
	for d < len(h.spatialUnits)+1 {
		u, ok := h.spatialUnits[uri]
		if !ok {
			return d
		}
		uri = u.ParentURI
		d++
	}
	return d
}

func (h *Hierarchy) PhysicalObjects() []*PhysicalObject {
	out := make([]*PhysicalObject, 0, len(h.objectOrder))
	for _, uri := range h.objectOrder {
		out = append(out, h.physicalObjects[uri])
	}
	return out
}

func (h *Hierarchy) Sensors() []*Sensor {
	out := make([]*Sensor, 0, len(h.sensorOrder))
	for _, uri := range h.sensorOrder {
		out = append(out, h.sensors[uri])
	}
	return out
}

func (h *Hierarchy) Gateways() []*Gateway {
	out := make([]*Gateway, 0, len(h.gatewayOrder))
	for _, uri := range h.gatewayOrder {
		out = append(out, h.gateways[uri])
	}
	return out
}

func (h *Hierarchy) Measurements() []*Measurement {
	out := make([]*Measurement, 0, len(h.measureOrder))
	for _, uri := range h.measureOrder {
		out = append(out, h.measurements[uri])
	}
	return out
}

func (h *Hierarchy) TimeIntervals() []*TimeInterval {
	out := make([]*TimeInterval, 0, len(h.intervalOrder))
	for _, uri := range h.intervalOrder {
		out = append(out, h.intervals[uri])
	}
	return out
}

// Counts summarizes node populations per kind.
type Counts struct {
	Buildings       int `json:"buildings"`
	Addresses       int `json:"addresses"`
	SpatialUnits    int `json:"spatial_units"`
	PhysicalObjects int `json:"physical_objects"`
	Sensors         int `json:"sensors"`
	Gateways        int `json:"gateways"`
	Measurements    int `json:"measurements"`
	TimeIntervals   int `json:"time_intervals"`
}

// Counts returns the node population of the hierarchy.
func (h *Hierarchy) Counts() Counts {
	return Counts{
		Buildings:       len(h.buildings),
		Addresses:       len(h.addresses),
		SpatialUnits:    len(h.spatialUnits),
		PhysicalObjects: len(h.physicalObjects),
		Sensors:         len(h.sensors),
		Gateways:        len(h.gateways),
		Measurements:    len(h.measurements),
		TimeIntervals:   len(h.intervals),
	}
}
