package inventory

import (
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	defaultCatalogQuantity = 50
)

var defaultCatalogPrice = decimal.NewFromInt(10)

// defaultCatalog is the hospital formulary seeded into an empty inventory.
var defaultCatalog = []string{
	"Ibupara", "Paracetamol 500mg", "Paracetamol 650 mg", "Dicyclomine hcl", "Cheston cold",
	"B.complex (mvbc)", "Diclofenac50mg", "Avil25mg", "Ceterizen 10 mg", "Pantop 40 mg",
	"Norfloxacin & Tinidazole", "Metronidazole", "Azithromycin 500mg", "Ciprofloxacin", "Ofloxacin",
	"Cefixime 200 mg", "Combit of fluconazole", "Ivermectin 12 mg", "Ors", "Luperamide",
	"Alprazolam 0.5", "Sorbitrat 5mg", "Amlodipine", "Tube miconazole", "Tube Diclofenac",
	"Tube fusidic acid", "Tube povidone", "Bandage 6 inch", "Bandage 4 inch", "Ivf.Ns 100ml",
	"Ivf.Ns 500 ml", "Ivf.DNS 500 ml", "Ivf.5D 500 ml", "Syringe 2 ml", "Syringe 5ml",
	"Syringe 10 ml", "Syringe 3 ml", "Hydrogen peroxide 500ml", "Microstrile 500ml",
	"Malti vitamin 200ml", "Paracetamol 60ml", "Cheston cold 60ml", "C-zen plus 60ml (ctz)",
	"Albendazole 10ml", "Amoxycillin suspension 30ml", "Ciprofloxacin eye drop 10ml",
	"Avil 75mg", "Hyoscine butylbromide 20mg (biscogen)", "Sodium bicarbonate 7.5 w/v",
	"Optineuronforte 3ml", "Diclofenac sodium 75mg/ml (Dynapar)", "Phenytoin sodium 50mg",
	"Paracetamol 150mg/ml", "Ondansetron 2ml", "Gentamycin 2ml", "Dopamine 40mg",
	"Oxytocin 1ml", "Adrenaline bitartrate 1ml", "Atropine sulphate 1ml", "Trenaxamic acid 500mg",
	"Tetanus (T.T.) 0.5ml", "Oxidocin",
}

// catalogID numbers seeded records from 1 in catalog order.
func catalogID(idx int) string {
	return strconv.Itoa(idx + 1)
}
