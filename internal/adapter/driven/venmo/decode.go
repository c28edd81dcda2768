package venmo

import (
	"log/slog"

	"github.com/ericfisherdev/govenmo/internal/domain/model"
)

// Decoder converts one raw JSON value into a record. It returns nil when raw
// is nil or carries no record of the supported kind.
type Decoder[T any] func(raw any) *T

// UserShape selects the field table used to decode a user object.
type UserShape int

const (
	// UserShapePeer is the shape returned by /users, friends lists, /account
	// and embedded in payments.
	UserShapePeer UserShape = iota
	// UserShapeProfile is the older profile shape keyed by external_id.
	UserShapeProfile
)

type userField int

const (
	userID userField = iota
	userUsername
	userFirstName
	userLastName
	userDisplayName
	userPhone
	userPicture
	userAbout
	userDateJoined
	userIsGroup
	userIsActive
	userIsBusiness
	userFieldCount
)

var peerUserSchema = [userFieldCount]path{
	userID:          {"id"},
	userUsername:    {"username"},
	userFirstName:   {"first_name"},
	userLastName:    {"last_name"},
	userDisplayName: {"display_name"},
	userPhone:       {"phone"},
	userPicture:     {"profile_picture_url"},
	userAbout:       {"about"},
	userDateJoined:  {"date_joined"},
	userIsGroup:     {"is_group"},
	userIsActive:    {"is_active"},
	userIsBusiness:  {"is_business"},
}

// Profile objects carry no group or active flags.
var profileUserSchema = [userFieldCount]path{
	userID:          {"external_id"},
	userUsername:    {"username"},
	userFirstName:   {"firstname"},
	userLastName:    {"lastname"},
	userDisplayName: {"name"},
	userPhone:       {"phone"},
	userPicture:     {"picture"},
	userAbout:       {"about"},
	userDateJoined:  {"date_created"},
	userIsBusiness:  {"is_business"},
}

// DecodeUser decodes a user object using the field table for shape.
func DecodeUser(raw any, shape UserShape) *model.User {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}

	s := &peerUserSchema
	if shape == UserShapeProfile {
		s = &profileUserSchema
	}

	return &model.User{
		ID:                o.str(s[userID]),
		Username:          o.str(s[userUsername]),
		FirstName:         o.str(s[userFirstName]),
		LastName:          o.str(s[userLastName]),
		DisplayName:       o.str(s[userDisplayName]),
		Phone:             o.str(s[userPhone]),
		ProfilePictureURL: o.str(s[userPicture]),
		About:             o.str(s[userAbout]),
		DateJoined:        o.timestamp(s[userDateJoined]),
		IsGroup:           o.boolean(s[userIsGroup]),
		IsActive:          o.boolean(s[userIsActive]),
		IsBusiness:        o.boolean(s[userIsBusiness]),
		Raw:               o,
	}
}

// decodePeerUser is the Decoder used for user lists.
func decodePeerUser(raw any) *model.User {
	return DecodeUser(raw, UserShapePeer)
}

type txField int

const (
	txID txField = iota
	txDateCreated
	txDateUpdated
	txAudience
	txApp
	txComments
	txPaymentID
	txAction
	txDateCompleted
	txNote
	txActor
	txTarget
	txStatus
	txAmount
	txFieldCount
)

// paymentStorySchema reads the payment sub-record of a story.
var paymentStorySchema = [txFieldCount]path{
	txID:            {"id"},
	txDateCreated:   {"date_created"},
	txDateUpdated:   {"date_updated"},
	txAudience:      {"audience"},
	txApp:           {"app"},
	txComments:      {"comments", "data"},
	txPaymentID:     {"payment", "id"},
	txAction:        {"payment", "action"},
	txDateCompleted: {"payment", "date_completed"},
	txNote:          {"payment", "note"},
	txActor:         {"payment", "actor"},
	txTarget:        {"payment", "target", "user"},
	txStatus:        {"payment", "status"},
	txAmount:        {"payment", "amount"},
}

// transactionDiscriminator holds the story type that selects a field table.
var transactionDiscriminator = path{"type"}

// transactionSchemas maps the story type discriminator to its field table.
// Refunds, transfers, top-ups, card authorizations, ATM withdrawals and
// disbursements use different layouts and have no entry.
var transactionSchemas = map[model.TransactionType]*[txFieldCount]path{
	model.TransactionTypePayment: &paymentStorySchema,
}

// DecodeTransaction decodes a story. Stories whose type has no field table
// decode to nil.
func DecodeTransaction(raw any) *model.Transaction {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}

	kind := model.ParseTransactionType(o.str(transactionDiscriminator))
	s, ok := transactionSchemas[kind]
	if !ok {
		return nil
	}

	return &model.Transaction{
		ID:            o.str(s[txID]),
		PaymentID:     o.str(s[txPaymentID]),
		Type:          kind,
		Action:        model.ParsePaymentAction(o.str(s[txAction])),
		Amount:        o.float(s[txAmount]),
		Audience:      model.ParsePaymentPrivacy(o.str(s[txAudience])),
		Status:        model.ParsePaymentStatus(o.str(s[txStatus])),
		Note:          o.str(s[txNote]),
		DeviceUsed:    deviceFromApp(o.obj(s[txApp])),
		Actor:         DecodeUser(o.obj(s[txActor]), UserShapePeer),
		Target:        DecodeUser(o.obj(s[txTarget]), UserShapePeer),
		Comments:      decodeAll(o.list(s[txComments]), DecodeComment),
		DateCreated:   o.timestamp(s[txDateCreated]),
		DateUpdated:   o.timestamp(s[txDateUpdated]),
		DateCompleted: o.timestamp(s[txDateCompleted]),
		Raw:           o,
	}
}

// deviceFromApp maps the app descriptor of a story to a phone platform.
func deviceFromApp(app object) string {
	id, ok := app.integer(path{"id"})
	if !ok {
		return "undefined"
	}
	switch id {
	case 1:
		return "iPhone"
	case 4:
		return "Android"
	default:
		return "undefined"
	}
}

type paymentField int

const (
	payID paymentField = iota
	payActor
	payTarget
	payAction
	payAmount
	payAudience
	payDateCreated
	payDateReminded
	payDateCompleted
	payNote
	payStatus
	paymentFieldCount
)

var paymentSchema = [paymentFieldCount]path{
	payID:            {"id"},
	payActor:         {"actor"},
	payTarget:        {"target", "user"},
	payAction:        {"action"},
	payAmount:        {"amount"},
	payAudience:      {"audience"},
	payDateCreated:   {"date_created"},
	payDateReminded:  {"date_reminded"},
	payDateCompleted: {"date_completed"},
	payNote:          {"note"},
	payStatus:        {"status"},
}

// DecodePayment decodes an entry of /payments.
func DecodePayment(raw any) *model.Payment {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := &paymentSchema

	return &model.Payment{
		ID:            o.str(s[payID]),
		Actor:         DecodeUser(o.obj(s[payActor]), UserShapePeer),
		Target:        DecodeUser(o.obj(s[payTarget]), UserShapePeer),
		Action:        model.ParsePaymentAction(o.str(s[payAction])),
		Amount:        o.float(s[payAmount]),
		Audience:      model.ParsePaymentPrivacy(o.str(s[payAudience])),
		Note:          o.str(s[payNote]),
		Status:        model.ParsePaymentStatus(o.str(s[payStatus])),
		DateCreated:   o.timestamp(s[payDateCreated]),
		DateReminded:  o.timestamp(s[payDateReminded]),
		DateCompleted: o.timestamp(s[payDateCompleted]),
		Raw:           o,
	}
}

var paymentMethodSchema = struct {
	id, role, name, kind path
}{
	id:   path{"id"},
	role: path{"peer_payment_role"},
	name: path{"name"},
	kind: path{"type"},
}

// DecodePaymentMethod decodes a funding source. Methods of an unsupported
// kind are logged and decode to nil.
func DecodePaymentMethod(raw any) *model.PaymentMethod {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := paymentMethodSchema

	wireKind := o.str(s.kind)
	kind := model.ParsePaymentMethodKind(wireKind)
	if kind == model.PaymentMethodKindUnsupported {
		slog.Warn("skipping payment method of unsupported type",
			"type", wireKind,
			"id", o.str(s.id),
		)
		return nil
	}

	return &model.PaymentMethod{
		ID:   o.str(s.id),
		Role: model.ParsePaymentRole(o.str(s.role)),
		Name: o.str(s.name),
		Kind: kind,
		Raw:  o,
	}
}

var commentSchema = struct {
	id, message, dateCreated, mentions, user path
}{
	id:          path{"id"},
	message:     path{"message"},
	dateCreated: path{"date_created"},
	mentions:    path{"mentions", "data"},
	user:        path{"user"},
}

// DecodeComment decodes a story comment.
func DecodeComment(raw any) *model.Comment {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := commentSchema

	return &model.Comment{
		ID:          o.str(s.id),
		Message:     o.str(s.message),
		User:        DecodeUser(o.obj(s.user), UserShapePeer),
		Mentions:    decodeAll(o.list(s.mentions), DecodeMention),
		DateCreated: o.timestamp(s.dateCreated),
		Raw:         o,
	}
}

var mentionSchema = struct {
	username, user path
}{
	username: path{"username"},
	user:     path{"user"},
}

// DecodeMention decodes an @mention inside a comment.
func DecodeMention(raw any) *model.Mention {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}

	return &model.Mention{
		Username: o.str(mentionSchema.username),
		User:     DecodeUser(o.obj(mentionSchema.user), UserShapePeer),
		Raw:      o,
	}
}

var merchantSchema = struct {
	id, braintreeID, paypalID, displayName, isSubscription, imageURL,
	imageUpdated, created, updated path
}{
	id:             path{"id"},
	braintreeID:    path{"braintree_merchant_id"},
	paypalID:       path{"paypal_merchant_id"},
	displayName:    path{"display_name"},
	isSubscription: path{"is_subscription"},
	imageURL:       path{"image_url"},
	imageUpdated:   path{"image_datetime_updated"},
	created:        path{"datetime_created"},
	updated:        path{"datetime_updated"},
}

// DecodeMerchant decodes a merchant descriptor.
func DecodeMerchant(raw any) *model.Merchant {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := merchantSchema

	return &model.Merchant{
		ID:                   o.str(s.id),
		BraintreeMerchantID:  o.str(s.braintreeID),
		PaypalMerchantID:     o.str(s.paypalID),
		DisplayName:          o.str(s.displayName),
		IsSubscription:       o.boolean(s.isSubscription),
		ImageURL:             o.str(s.imageURL),
		ImageDatetimeUpdated: o.str(s.imageUpdated),
		DatetimeCreated:      o.timestamp(s.created),
		DatetimeUpdated:      o.timestamp(s.updated),
		Raw:                  o,
	}
}

var feeSchema = struct {
	productURI, appliedTo, baseAmount, percentage, calculatedCents, token path
}{
	productURI:      path{"product_uri"},
	appliedTo:       path{"applied_to"},
	baseAmount:      path{"base_fee_amount"},
	percentage:      path{"fee_percentage"},
	calculatedCents: path{"calculated_fee_amount_in_cents"},
	token:           path{"fee_token"},
}

// DecodeFee decodes a fee quote.
func DecodeFee(raw any) *model.Fee {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := feeSchema
	cents, _ := o.integer(s.calculatedCents)

	return &model.Fee{
		ProductURI:                 o.str(s.productURI),
		AppliedTo:                  o.str(s.appliedTo),
		BaseFeeAmount:              o.float(s.baseAmount),
		FeePercentage:              o.float(s.percentage),
		CalculatedFeeAmountInCents: cents,
		FeeToken:                   o.str(s.token),
		Raw:                        o,
	}
}

var eligibilitySchema = struct {
	token, eligible, fees, disclaimer path
}{
	token:      path{"eligibility_token"},
	eligible:   path{"eligible"},
	fees:       path{"fees"},
	disclaimer: path{"fee_disclaimer"},
}

// DecodeEligibilityToken decodes the response of /protection/eligibility.
func DecodeEligibilityToken(raw any) *model.EligibilityToken {
	o, ok := asObject(raw)
	if !ok {
		return nil
	}
	s := eligibilitySchema

	return &model.EligibilityToken{
		Token:         o.str(s.token),
		Eligible:      o.boolean(s.eligible),
		Fees:          decodeAll(o.list(s.fees), DecodeFee),
		FeeDisclaimer: o.str(s.disclaimer),
		Raw:           o,
	}
}

// decodeAll decodes each element of raw, dropping elements that decode to nil.
// The result is never nil so callers can range over it and compare it with an
// empty slice.
func decodeAll[T any](raw []any, decode func(any) *T) []T {
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		if rec := decode(item); rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}
