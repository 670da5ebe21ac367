package response

// CatalogResponse is the public storefront payload for one studio subdomain.
// A studio with zero upcoming classes still returns its profile with an
// empty class list; that is not a not-found condition.
type CatalogResponse struct {
	Instructor StudioResponse  `json:"instructor"`
	Classes    []ClassResponse `json:"classes"`
}
