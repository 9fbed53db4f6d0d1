// Package services holds the costing sheet extraction, comparison and
// analytics logic behind the HTTP handlers.
package services

// ProductTypeRCT is the only product type the current sheet layout carries.
const ProductTypeRCT = "RCT"

// MaterialFieldSpec describes where one material's figures live in the
// fixed costing sheet layout: a quantity column, a rate column and the
// sheet's own computed value column, plus the unit of measure.
type MaterialFieldSpec struct {
	Name     string
	QtyCol   int
	RateCol  int
	ValueCol int
	Unit     string
}

// materialCatalog is the complete column mapping for the RCT tank costing
// sheet. The column indices match the exported sheet layout exactly,
// including the gaps left by unused columns (64-65, 72-74, 78-80), and the
// slice order fixes the iteration order for every downstream consumer.
var materialCatalog = []MaterialFieldSpec{
	{Name: "Shell Sheets", QtyCol: 4, RateCol: 5, ValueCol: 6, Unit: "Nos"},
	{Name: "Roof Sheets", QtyCol: 7, RateCol: 8, ValueCol: 9, Unit: "Sq.Mtr"},
	{Name: "Geo Syn. Cloth", QtyCol: 10, RateCol: 11, ValueCol: 12, Unit: "Sq. Mtr"},
	{Name: "Truss", QtyCol: 13, RateCol: 14, ValueCol: 15, Unit: "Nos"},
	{Name: "Top Angles", QtyCol: 16, RateCol: 17, ValueCol: 18, Unit: "Nos"},
	{Name: "Roof Teks Screw", QtyCol: 19, RateCol: 20, ValueCol: 21, Unit: "Nos"},
	{Name: "Truss N/B M16x50", QtyCol: 22, RateCol: 23, ValueCol: 24, Unit: "Nos"},
	{Name: "End Foot N/B 3/8\"", QtyCol: 25, RateCol: 26, ValueCol: 27, Unit: "Nos"},
	{Name: "Pinch Weld", QtyCol: 28, RateCol: 29, ValueCol: 30, Unit: "Mtr"},
	{Name: "Vermin Tape", QtyCol: 31, RateCol: 32, ValueCol: 33, Unit: "Mtr"},
	{Name: "RI Tape", QtyCol: 34, RateCol: 35, ValueCol: 36, Unit: "Nos"},
	{Name: "Silicone", QtyCol: 37, RateCol: 38, ValueCol: 39, Unit: "Nos"},
	{Name: "Hold Down Bracket", QtyCol: 40, RateCol: 41, ValueCol: 42, Unit: "Nos"},
	{Name: "Anchor Fastener", QtyCol: 43, RateCol: 44, ValueCol: 45, Unit: "Nos"},
	{Name: "Calibrated Level Guage", QtyCol: 46, RateCol: 47, ValueCol: 48, Unit: "Nos"},
	{Name: "Stiffners", QtyCol: 49, RateCol: 50, ValueCol: 51, Unit: "Meters"},
	{Name: "Internal Rope Ladder", QtyCol: 52, RateCol: 53, ValueCol: 54, Unit: "Nos"},
	{Name: "External Fix Ladder", QtyCol: 55, RateCol: 56, ValueCol: 57, Unit: "Nos"},
	{Name: "Liner", QtyCol: 58, RateCol: 59, ValueCol: 60, Unit: "Nos"},
	{Name: "Wall Sheet", QtyCol: 61, RateCol: 62, ValueCol: 63, Unit: "Meters"},
	{Name: "Galv Chain", QtyCol: 66, RateCol: 67, ValueCol: 68, Unit: "Nos"},
	{Name: "Platform", QtyCol: 69, RateCol: 70, ValueCol: 71, Unit: "Nos"},
	{Name: "Turbo Vent", QtyCol: 75, RateCol: 76, ValueCol: 77, Unit: "Nos"},
	{Name: "Sacrificial Anode", QtyCol: 81, RateCol: 82, ValueCol: 83, Unit: "Nos"},
	{Name: "M12 Nut Bolt", QtyCol: 84, RateCol: 85, ValueCol: 86, Unit: "Nos"},
	{Name: "M16 Nut Bolt", QtyCol: 87, RateCol: 88, ValueCol: 89, Unit: "Nos"},
	{Name: "SS Nut Bolt", QtyCol: 90, RateCol: 91, ValueCol: 92, Unit: "Nos"},
	{Name: "Lock Nut", QtyCol: 93, RateCol: 94, ValueCol: 95, Unit: "Nos"},
}

// materialsByName indexes the catalog by display name. Built once at init;
// never mutated afterwards.
var materialsByName = func() map[string]MaterialFieldSpec {
	m := make(map[string]MaterialFieldSpec, len(materialCatalog))
	for _, spec := range materialCatalog {
		m[spec.Name] = spec
	}
	return m
}()

// AllMaterials returns every material spec in catalog order. Callers must
// not modify the returned slice.
func AllMaterials() []MaterialFieldSpec {
	return materialCatalog
}

// MaterialByName looks up a material spec by its display name. A miss means
// the caller is using a name that was never part of the sheet layout, which
// is a configuration bug rather than a user error.
func MaterialByName(name string) (MaterialFieldSpec, bool) {
	spec, ok := materialsByName[name]
	return spec, ok
}
