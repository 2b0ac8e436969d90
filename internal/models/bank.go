package models

// Bank describes a settlement institution reachable through the
// verification network.
type Bank struct {
	Key    string `firestore:"key" json:"key"`
	Name   string `firestore:"name" json:"name"`
	Code   string `firestore:"code" json:"code"`   // CBN settlement code
	Prefix string `firestore:"prefix" json:"prefix"` // transaction id routing prefix
	Speed  string `firestore:"speed" json:"speed"`
}

// Banks is the static registry of known institutions, keyed by short code.
var Banks = map[string]Bank{
	"UBA":       {Key: "UBA", Name: "United Bank for Africa", Code: "033", Prefix: "001", Speed: "fast"},
	"GTB":       {Key: "GTB", Name: "Guaranty Trust Bank", Code: "058", Prefix: "002", Speed: "medium"},
	"ACCESS":    {Key: "ACCESS", Name: "Access Bank", Code: "044", Prefix: "003", Speed: "fast"},
	"ZENITH":    {Key: "ZENITH", Name: "Zenith Bank", Code: "057", Prefix: "004", Speed: "slow"},
	"FCMB":      {Key: "FCMB", Name: "First City Monument Bank", Code: "214", Prefix: "005", Speed: "medium"},
	"FIRSTBANK": {Key: "FIRSTBANK", Name: "First Bank of Nigeria", Code: "011", Prefix: "006", Speed: "slow"},
}

// BankKeys lists the registry keys in a fixed order so random selection and
// tests have a stable universe to draw from.
var BankKeys = []string{"UBA", "GTB", "ACCESS", "ZENITH", "FCMB", "FIRSTBANK"}

// BankByPrefix resolves a three-character routing prefix to a bank key.
func BankByPrefix(prefix string) (string, bool) {
	for _, key := range BankKeys {
		if Banks[key].Prefix == prefix {
			return key, true
		}
	}
	return "", false
}

// IsKnownBank reports whether key names a registered institution.
func IsKnownBank(key string) bool {
	_, ok := Banks[key]
	return ok
}
