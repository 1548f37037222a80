// ABOUTME: Enumerated column values for properties, contacts and activities
// ABOUTME: Named string types with validation helpers
package models

type PropertyType string

const (
	PropertySingleFamily PropertyType = "Single Family"
	PropertyDuplex       PropertyType = "Duplex"
	PropertyTriplex      PropertyType = "Triplex"
	PropertyApartment    PropertyType = "Apartment"
	PropertyCommercial   PropertyType = "Commercial"
)

// PropertyTypes is the set of property types offered by the entry forms.
var PropertyTypes = []PropertyType{
	PropertySingleFamily, PropertyDuplex, PropertyTriplex, PropertyApartment, PropertyCommercial,
}

func (t PropertyType) IsValid() bool { return contains(PropertyTypes, t) }

// DealStage is the lifecycle label on a property.
type DealStage string

const (
	StageNewLead       DealStage = "New Lead"
	StageContacted     DealStage = "Contacted"
	StageUnderReview   DealStage = "Under Review"
	StageAnalyzing     DealStage = "Analyzing"
	StageNegotiating   DealStage = "Negotiating"
	StageOfferMade     DealStage = "Offer Made"
	StageUnderContract DealStage = "Under Contract"
	StageClosed        DealStage = "Closed"
	StageDead          DealStage = "Dead"
)

var DealStages = []DealStage{
	StageNewLead, StageContacted, StageUnderReview, StageAnalyzing, StageNegotiating,
	StageOfferMade, StageUnderContract, StageClosed, StageDead,
}

func (s DealStage) IsValid() bool { return contains(DealStages, s) }

// IsTerminal reports whether the stage ends a deal (Closed or Dead).
func (s DealStage) IsTerminal() bool { return s == StageClosed || s == StageDead }

type ContactType string

const (
	ContactSeller     ContactType = "Seller"
	ContactBuyer      ContactType = "Buyer"
	ContactAgent      ContactType = "Agent"
	ContactWholesaler ContactType = "Wholesaler"
	ContactOther      ContactType = "Other"
)

var ContactTypes = []ContactType{ContactSeller, ContactBuyer, ContactAgent, ContactWholesaler, ContactOther}

func (t ContactType) IsValid() bool { return contains(ContactTypes, t) }

// Temperature is the lead-priority label on a contact.
type Temperature string

const (
	TemperatureHot  Temperature = "Hot"
	TemperatureWarm Temperature = "Warm"
	TemperatureCold Temperature = "Cold"
)

var Temperatures = []Temperature{TemperatureHot, TemperatureWarm, TemperatureCold}

func (t Temperature) IsValid() bool { return contains(Temperatures, t) }

type ContactMethod string

const (
	MethodEmail ContactMethod = "Email"
	MethodPhone ContactMethod = "Phone"
)

type ActivityType string

const (
	ActivityCall      ActivityType = "Call"
	ActivityEmail     ActivityType = "Email"
	ActivityText      ActivityType = "Text"
	ActivityMeeting   ActivityType = "Meeting"
	ActivitySiteVisit ActivityType = "Site Visit"
	ActivityOffer     ActivityType = "Offer"
	ActivityOther     ActivityType = "Other"
)

var ActivityTypes = []ActivityType{
	ActivityCall, ActivityEmail, ActivityText, ActivityMeeting, ActivitySiteVisit, ActivityOffer, ActivityOther,
}

func (t ActivityType) IsValid() bool { return contains(ActivityTypes, t) }

// ActivityStatus values. An activity without a status, or with any status
// other than Completed, is open.
type ActivityStatus string

const (
	StatusPending   ActivityStatus = "Pending"
	StatusCompleted ActivityStatus = "Completed"
)

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
