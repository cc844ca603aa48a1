package extractor

// Stabilization selector sets used to dismiss cookie banners, expand
// "load more" controls, and harvest modal content during page
// stabilization. Kept as package-level lookup tables.
//
//nolint:gochecknoglobals // static lookup tables, read-only after init
var (
	// CookieBannerSelectors are tried, in order, to find a dismissible
	// cookie/privacy/GDPR banner. At most one is clicked per page.
	CookieBannerSelectors = []string{
		`[id*="cookie"]`,
		`[id*="privacy"]`,
		`[id*="gdpr"]`,
		`button[onclick*="cookiesPolicy"]`,
	}

	// CookieBannerButtonText lists the localized texts of a cookie
	// consent button. The page session does not consult it:
	// dismissCookieBanner clicks by CookieBannerSelectors only, so a
	// banner recognizable only by its button text is not dismissed.
	CookieBannerButtonText = []string{"accetta", "accept"}

	// LoadMoreSelectors identify a "load more" control by markup shape.
	LoadMoreSelectors = []string{
		`[class*="load-more"]`,
	}

	// LoadMoreButtonText lists "load more" button texts; "più" covers
	// the Italian "carica altri" (load more) phrasing. The page session
	// does not consult it: clickLoadMore clicks by LoadMoreSelectors
	// only, so a control recognizable only by its text is not clicked.
	LoadMoreButtonText = []string{"carica", "load", "more", "più", "carica altri"}

	// MaxLoadMoreClicks bounds the load-more interaction loop (spec
	// §4.4 step 4 and §5's load-more interaction budget).
	MaxLoadMoreClicks = 5

	// ModalTriggerSelectors identify elements that open a modal whose
	// contents should be harvested for links before being closed.
	ModalTriggerSelectors = []string{
		`button[data-bs-toggle="modal"]`,
		`[data-toggle="modal"]`,
		`[class*="modal-trigger"]`,
		`button[onclick*="modal"]`,
	}

	// ModalVisibleSelector is waited on after a trigger is clicked.
	ModalVisibleSelector = `.modal.show, [role="dialog"][class*="show"]`
)
