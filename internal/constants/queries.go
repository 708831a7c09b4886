package constants

const (
	GetSignupByEmail = `
	SELECT * FROM waitlist_signups WHERE email = $1
	`

	GetSignupByReferralCode = `
	SELECT * FROM waitlist_signups WHERE referral_code = $1
	`

	GetNextPosition = `
	SELECT COALESCE(MAX(position), 0) + 1 FROM waitlist_signups
	`

	InsertSignup = `
	INSERT INTO waitlist_signups (
		id,
		email,
		referral_code,
		referred_by,
		position,
		metadata
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at;
	`

	IncrementReferralCount = `
	UPDATE waitlist_signups
	SET referral_count = referral_count + 1
	WHERE referral_code = $1
	`

	CountSignups = `
	SELECT COUNT(*) FROM waitlist_signups
	`

	ListSignupsByPosition = `
	SELECT * FROM waitlist_signups ORDER BY position ASC
	`
)
