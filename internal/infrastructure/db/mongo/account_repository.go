package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artisan-avenue/auth-service/internal/core/domain"
)

const accountCollection = "accounts"

// MongoAccountRepository persists accounts in the accounts collection.
type MongoAccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *MongoAccountRepository {
	return &MongoAccountRepository{coll: db.Collection(accountCollection)}
}

// EnsureIndexes creates the unique email index and the sparse unique
// username index. Call once at startup.
func (r *MongoAccountRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create account indexes: %w", err)
	}
	return nil
}

type vendorDoc struct {
	BusinessName string   `bson:"business_name"`
	Phone        string   `bson:"phone"`
	Website      string   `bson:"website,omitempty"`
	Description  string   `bson:"description"`
	Categories   []string `bson:"categories"`
	LogoURL      string   `bson:"logo_url,omitempty"`

	// Deprecated single-category field. Promoted into Categories only by
	// the MigrateLegacyCategories maintenance routine, never on save.
	LegacyCategory string `bson:"primary_category,omitempty"`
}

type accountDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Role         string             `bson:"role"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	Username     string             `bson:"username,omitempty"`
	Address      string             `bson:"address,omitempty"`
	PasswordHash string             `bson:"password_hash"`

	DOB    *time.Time `bson:"dob,omitempty"`
	Vendor *vendorDoc `bson:"vendor,omitempty"`

	IsVerified            bool       `bson:"is_verified"`
	VerifyCodeHash        string     `bson:"verify_code_hash,omitempty"`
	VerifyCodeExpiresAt   *time.Time `bson:"verify_code_expires_at,omitempty"`
	LastVerifyEmailSentAt *time.Time `bson:"last_verify_email_sent_at,omitempty"`

	ResetCodeHash      string     `bson:"reset_code_hash,omitempty"`
	ResetCodeExpiresAt *time.Time `bson:"reset_code_expires_at,omitempty"`
	ResetCodeAttempts  int        `bson:"reset_code_attempts"`
	LastResetRequestAt *time.Time `bson:"last_reset_request_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (r *MongoAccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := fromDomain(account)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "username") {
				return nil, domain.ErrUsernameTaken
			}
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	created := *account
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoAccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoAccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// Update writes the whole document back. There is no partial or atomic
// field update here; the reset attempt counter inherits that behavior.
func (r *MongoAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	oid, err := primitive.ObjectIDFromHex(account.ID)
	if err != nil {
		return domain.ErrAccountNotFound
	}

	doc := fromDomain(account)
	doc.ID = oid
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *MongoAccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return toDomain(&doc), nil
}

func fromDomain(a *domain.Account) *accountDoc {
	doc := &accountDoc{
		Role:              a.Role,
		FirstName:         a.FirstName,
		LastName:          a.LastName,
		Email:             a.Email,
		Username:          a.Username,
		Address:           a.Address,
		PasswordHash:      a.PasswordHash,
		IsVerified:        a.IsVerified,
		VerifyCodeHash:    a.VerifyCodeHash,
		ResetCodeHash:     a.ResetCodeHash,
		ResetCodeAttempts: a.ResetCodeAttempts,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	doc.DOB = timePtr(a.DOB)
	doc.VerifyCodeExpiresAt = timePtr(a.VerifyCodeExpiresAt)
	doc.LastVerifyEmailSentAt = timePtr(a.LastVerifyEmailSentAt)
	doc.ResetCodeExpiresAt = timePtr(a.ResetCodeExpiresAt)
	doc.LastResetRequestAt = timePtr(a.LastResetRequestAt)

	if a.Vendor != nil {
		doc.Vendor = &vendorDoc{
			BusinessName: a.Vendor.BusinessName,
			Phone:        a.Vendor.Phone,
			Website:      a.Vendor.Website,
			Description:  a.Vendor.Description,
			Categories:   a.Vendor.Categories,
			LogoURL:      a.Vendor.LogoURL,
		}
	}
	return doc
}

func toDomain(doc *accountDoc) *domain.Account {
	a := &domain.Account{
		ID:                doc.ID.Hex(),
		Role:              doc.Role,
		FirstName:         doc.FirstName,
		LastName:          doc.LastName,
		Email:             doc.Email,
		Username:          doc.Username,
		Address:           doc.Address,
		PasswordHash:      doc.PasswordHash,
		IsVerified:        doc.IsVerified,
		VerifyCodeHash:    doc.VerifyCodeHash,
		ResetCodeHash:     doc.ResetCodeHash,
		ResetCodeAttempts: doc.ResetCodeAttempts,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	}
	a.DOB = timeVal(doc.DOB)
	a.VerifyCodeExpiresAt = timeVal(doc.VerifyCodeExpiresAt)
	a.LastVerifyEmailSentAt = timeVal(doc.LastVerifyEmailSentAt)
	a.ResetCodeExpiresAt = timeVal(doc.ResetCodeExpiresAt)
	a.LastResetRequestAt = timeVal(doc.LastResetRequestAt)

	if doc.Vendor != nil {
		a.Vendor = &domain.VendorProfile{
			BusinessName: doc.Vendor.BusinessName,
			Phone:        doc.Vendor.Phone,
			Website:      doc.Vendor.Website,
			Description:  doc.Vendor.Description,
			Categories:   doc.Vendor.Categories,
			LogoURL:      doc.Vendor.LogoURL,
		}
	}
	return a
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeVal(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
