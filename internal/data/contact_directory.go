package data

import (
	"strings"

	"CourtGate/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-kratos/kratos/v2/log"
)

const contactCacheSize = 256

// seedContacts is the built-in directory of court clerk offices used by
// phone verification. Real deployments extend this via the database; the
// seed set covers the federal districts and states the adapters know.
var seedContacts = []model.CourtContact{
	{CourtID: "nysd", CourtName: "U.S. District Court, Southern District of New York", Phone: "+1-212-805-0136", ClerkEmail: "clerk@nysd.uscourts.gov"},
	{CourtID: "nyed", CourtName: "U.S. District Court, Eastern District of New York", Phone: "+1-718-613-2600", ClerkEmail: "clerk@nyed.uscourts.gov"},
	{CourtID: "cacd", CourtName: "U.S. District Court, Central District of California", Phone: "+1-213-894-1565", ClerkEmail: "clerk@cacd.uscourts.gov"},
	{CourtID: "cand", CourtName: "U.S. District Court, Northern District of California", Phone: "+1-415-522-2000", ClerkEmail: "clerk@cand.uscourts.gov"},
	{CourtID: "txnd", CourtName: "U.S. District Court, Northern District of Texas", Phone: "+1-214-753-2200", ClerkEmail: "clerk@txnd.uscourts.gov"},
	{CourtID: "txsd", CourtName: "U.S. District Court, Southern District of Texas", Phone: "+1-713-250-5500", ClerkEmail: "clerk@txsd.uscourts.gov"},
	{CourtID: "flsd", CourtName: "U.S. District Court, Southern District of Florida", Phone: "+1-305-523-5100", ClerkEmail: "clerk@flsd.uscourts.gov"},
	{CourtID: "ilnd", CourtName: "U.S. District Court, Northern District of Illinois", Phone: "+1-312-435-5670", ClerkEmail: "clerk@ilnd.uscourts.gov"},
	{CourtID: "dcd", CourtName: "U.S. District Court, District of Columbia", Phone: "+1-202-354-3000", ClerkEmail: "clerk@dcd.uscourts.gov"},
	{CourtID: "ca", CourtName: "Superior Court of California, Clerk's Office", Phone: "+1-916-874-5522", ClerkEmail: "clerk@courts.ca.gov"},
	{CourtID: "ny", CourtName: "New York State Unified Court System, Clerk's Office", Phone: "+1-646-386-3600", ClerkEmail: "clerk@nycourts.gov"},
	{CourtID: "tx", CourtName: "Texas Office of Court Administration", Phone: "+1-512-463-1625", ClerkEmail: "clerk@txcourts.gov"},
	{CourtID: "fl", CourtName: "Florida State Courts, Clerk's Office", Phone: "+1-850-922-5081", ClerkEmail: "clerk@flcourts.org"},
	{CourtID: "il", CourtName: "Illinois Courts, Clerk's Office", Phone: "+1-217-782-2035", ClerkEmail: "clerk@illinoiscourts.gov"},
}

// ContactDirectory implements biz.ContactDirectory. Lookups hit an LRU
// cache in front of the seed map so repeated phone verifications against
// the same court stay cheap even when the seed set grows.
type ContactDirectory struct {
	seed   map[string]model.CourtContact
	cache  *lru.Cache[string, model.CourtContact]
	helper *log.Helper
}

func NewContactDirectory(logger log.Logger) *ContactDirectory {
	cache, _ := lru.New[string, model.CourtContact](contactCacheSize)

	seed := make(map[string]model.CourtContact, len(seedContacts))
	for _, c := range seedContacts {
		seed[strings.ToLower(c.CourtID)] = c
	}

	return &ContactDirectory{
		seed:   seed,
		cache:  cache,
		helper: log.NewHelper(logger),
	}
}

// Lookup returns the contact record for a court identifier. Court IDs are
// case-insensitive.
func (d *ContactDirectory) Lookup(courtID string) (model.CourtContact, bool) {
	key := strings.ToLower(strings.TrimSpace(courtID))
	if key == "" {
		return model.CourtContact{}, false
	}

	if contact, ok := d.cache.Get(key); ok {
		return contact, true
	}

	contact, ok := d.seed[key]
	if !ok {
		d.helper.Debugw("no contact record for court", "court_id", key)
		return model.CourtContact{}, false
	}

	d.cache.Add(key, contact)
	return contact, true
}
