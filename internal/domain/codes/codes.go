// Package codes holds the terminology lookup tables used to normalize
// extracted clinical entities. Keys are lowercase canonical names.
package codes

// rxnorm maps medication names to RxNorm concept identifiers.
var rxnorm = map[string]string{
	"metformin":    "6809",
	"lisinopril":   "29046",
	"atorvastatin": "83367",
	"amlodipine":   "17767",
}

// loinc maps laboratory test names to LOINC codes.
var loinc = map[string]string{
	"hemoglobin_a1c": "4548-4",
	"glucose":        "2345-7",
	"creatinine":     "2160-0",
	"egfr":           "33914-3",
}

// RxNorm returns the RxNorm code for a medication name.
func RxNorm(name string) (string, bool) {
	code, ok := rxnorm[name]
	return code, ok
}

// LOINC returns the LOINC code for a lab test name.
func LOINC(testName string) (string, bool) {
	code, ok := loinc[testName]
	return code, ok
}
