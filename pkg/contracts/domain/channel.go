package domain

// Channel is a coarse marketing-attribution bucket derived from raw
// UTM/referrer fields.
type Channel string

const (
	ChannelPaidSearch    Channel = "Paid Search"
	ChannelEmail         Channel = "Email"
	ChannelSocial        Channel = "Social"
	ChannelDirect        Channel = "Direct"
	ChannelReferral      Channel = "Referral"
	ChannelOrganicSearch Channel = "Organic Search"
	ChannelOther         Channel = "Other"
)

// Segment classifies a session's visitor as a first-time or returning customer.
type Segment string

const (
	SegmentNew       Segment = "New"
	SegmentReturning Segment = "Returning"
)
