// Package cmapss models run-to-failure sensor logs from the NASA C-MAPSS
// turbofan degradation simulator and derives remaining-useful-life labels
// from them.
package cmapss

// NumColumns is the fixed field count of a raw run record: unit number,
// cycle counter, three operational settings and 21 sensor channels.
const NumColumns = 26

// Run is one recorded operational cycle of one simulated engine.
type Run struct {
	UnitNumber   int64   `parquet:"unit_number"`
	TimeInCycles int64   `parquet:"time_in_cycles"`
	OpSetting1   float64 `parquet:"op_setting_1"`
	OpSetting2   float64 `parquet:"op_setting_2"`
	OpSetting3   float64 `parquet:"op_setting_3"`
	T2           float64 `parquet:"T2"`
	T24          float64 `parquet:"T24"`
	T30          float64 `parquet:"T30"`
	T50          float64 `parquet:"T50"`
	P2           float64 `parquet:"P2"`
	P15          float64 `parquet:"P15"`
	P30          float64 `parquet:"P30"`
	Nf           float64 `parquet:"Nf"`
	Nc           float64 `parquet:"Nc"`
	EPR          float64 `parquet:"epr"`
	Ps30         float64 `parquet:"Ps30"`
	Phi          float64 `parquet:"phi"`
	NRf          float64 `parquet:"NRf"`
	NRc          float64 `parquet:"NRc"`
	BPR          float64 `parquet:"BPR"`
	FarB         float64 `parquet:"farB"`
	HtBleed      float64 `parquet:"htBleed"`
	NfDmd        float64 `parquet:"Nf_dmd"`
	PCNfRDmd     float64 `parquet:"PCNfR_dmd"`
	W31          float64 `parquet:"W31"`
	W32          float64 `parquet:"W32"`
}

// EnrichedRun is a Run with its derived remaining-useful-life label.
type EnrichedRun struct {
	Run
	RUL int64 `parquet:"RUL"`
}

// SensorChannel describes one of the 21 recorded sensor channels.
type SensorChannel struct {
	Name        string
	Description string
	Unit        string
}

// Sensors returns the sensor channel catalog in raw-file column order.
func Sensors() []SensorChannel {
	return []SensorChannel{
		{Name: "T2", Description: "Total temperature at fan inlet", Unit: "°R"},
		{Name: "T24", Description: "Total temperature at LPC outlet", Unit: "°R"},
		{Name: "T30", Description: "Total temperature at HPC outlet", Unit: "°R"},
		{Name: "T50", Description: "Total temperature at LPT outlet", Unit: "°R"},
		{Name: "P2", Description: "Pressure at fan inlet", Unit: "psia"},
		{Name: "P15", Description: "Total pressure in bypass-duct", Unit: "psia"},
		{Name: "P30", Description: "Total pressure at HPC outlet", Unit: "psia"},
		{Name: "Nf", Description: "Physical fan speed", Unit: "rpm"},
		{Name: "Nc", Description: "Physical core speed", Unit: "rpm"},
		{Name: "epr", Description: "Engine pressure ratio (P50/P2)", Unit: "--"},
		{Name: "Ps30", Description: "Static pressure at HPC outlet", Unit: "psia"},
		{Name: "phi", Description: "Ratio of fuel flow to Ps30", Unit: "pps/psi"},
		{Name: "NRf", Description: "Corrected fan speed", Unit: "rpm"},
		{Name: "NRc", Description: "Corrected core speed", Unit: "rpm"},
		{Name: "BPR", Description: "Bypass Ratio", Unit: "--"},
		{Name: "farB", Description: "Burner fuel-air ratio", Unit: "--"},
		{Name: "htBleed", Description: "Bleed Enthalpy", Unit: "--"},
		{Name: "Nf_dmd", Description: "Demanded fan speed", Unit: "rpm"},
		{Name: "PCNfR_dmd", Description: "Demanded corrected fan speed", Unit: "rpm"},
		{Name: "W31", Description: "HPT coolant bleed", Unit: "lbm/s"},
		{Name: "W32", Description: "LPT coolant bleed", Unit: "lbm/s"},
	}
}

// Columns returns the published output column names in schema order: the 26
// raw columns followed by RUL.
func Columns() []string {
	cols := make([]string, 0, NumColumns+1)
	cols = append(cols, "unit_number", "time_in_cycles", "op_setting_1", "op_setting_2", "op_setting_3")
	for _, sensor := range Sensors() {
		cols = append(cols, sensor.Name)
	}
	return append(cols, "RUL")
}

// numericFields returns pointers to the three operational setting fields and
// the 21 sensor fields in raw-file column order.
func (r *Run) numericFields() []*float64 {
	return []*float64{
		&r.OpSetting1, &r.OpSetting2, &r.OpSetting3,
		&r.T2, &r.T24, &r.T30, &r.T50,
		&r.P2, &r.P15, &r.P30,
		&r.Nf, &r.Nc, &r.EPR, &r.Ps30, &r.Phi,
		&r.NRf, &r.NRc, &r.BPR, &r.FarB, &r.HtBleed,
		&r.NfDmd, &r.PCNfRDmd, &r.W31, &r.W32,
	}
}

// Values returns the row's values in Columns() order, widened to float64.
func (r EnrichedRun) Values() []float64 {
	out := make([]float64, 0, NumColumns+1)
	out = append(out, float64(r.UnitNumber), float64(r.TimeInCycles))
	for _, field := range r.numericFields() {
		out = append(out, *field)
	}
	return append(out, float64(r.RUL))
}
