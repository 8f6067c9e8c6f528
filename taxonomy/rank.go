package taxonomy

// validRanks is the accepted taxonomic rank vocabulary, lowercased.
var validRanks = map[string]struct{}{
	"domain":        {},
	"superkingdom":  {},
	"kingdom":       {},
	"subkingdom":    {},
	"branch":        {},
	"infrakingdom":  {},
	"superphylum":   {},
	"phylum":        {},
	"subphylum":     {},
	"infraphylum":   {},
	"microphylum":   {},
	"superdivision": {},
	"division":      {},
	"subdivision":   {},
	"infradivision": {},
	"superclass":    {},
	"class":         {},
	"subclass":      {},
	"infraclass":    {},
	"superlegion":   {},
	"legion":        {},
	"sublegion":     {},
	"infralegion":   {},
	"supercohort":   {},
	"cohort":        {},
	"subcohort":     {},
	"infracohort":   {},
	"superorder":    {},
	"order":         {},
	"suborder":      {},
	"infraorder":    {},
	"superfamily":   {},
	"family":        {},
	"subfamily":     {},
	"supertribe":    {},
	"tribe":         {},
	"subtribe":      {},
	"infratribe":    {},
	"genus":         {},
	"subgenus":      {},
	"superspecies":  {},
	"species":       {},
	"subspecies":    {},
	"variety":       {},
	"varietas":      {},
	"subvariety":    {},
	"form":          {},
	"subform":       {},
	"cultivar":      {},
	"strain":        {},
	"section":       {},
	"subsection":    {},
	"clade":         {},
	"unknown":       {},
	"other":         {},
	"unspecified":   {},
}

// IsValidRank reports whether rank (already lowercased) is in the accepted
// rank vocabulary.
func IsValidRank(rank string) bool {
	_, ok := validRanks[rank]
	return ok
}
