package constants

type CachePrefix string

const CachePrefixWaitlistCount CachePrefix = "WL_COUNT"

// ReferralCodeLength is the length of the hex referral token assigned at insert.
const ReferralCodeLength = 12

// SpotsPerReferral is the display-only "move up N spots" product rule.
// Positions themselves are assigned once and never re-ranked.
const SpotsPerReferral = 5

// MaxPosition bounds positions accepted by the notification endpoint.
const MaxPosition = 10_000_000
