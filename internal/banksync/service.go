package banksync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/fingerprint"
)

// syncPageCap bounds the incremental feed loop so a misbehaving provider
// cannot spin it forever.
const syncPageCap = 100

//go:generate mockgen -source=service.go -destination=service_mock.go -package=banksync
type Repository interface {
	CreateConnection(ctx context.Context, conn *Connection) error
	GetConnection(ctx context.Context, userID uuid.UUID, id string) (*Connection, error)
	ListConnections(ctx context.Context, userID uuid.UUID) ([]*Connection, error)
	SetConnectionStatus(ctx context.Context, userID uuid.UUID, id, status string) error
	TouchSynced(ctx context.Context, userID uuid.UUID, id string, at time.Time) error

	SaveToken(ctx context.Context, userID uuid.UUID, connectionID, accessToken string) error
	// GetToken returns the access token and last sync cursor. The cursor
	// is empty on the first sync.
	GetToken(ctx context.Context, userID uuid.UUID, connectionID string) (accessToken, cursor string, err error)
	SaveCursor(ctx context.Context, userID uuid.UUID, connectionID, cursor string) error
	DeleteToken(ctx context.Context, userID uuid.UUID, connectionID string) error
}

// Ledger is the slice of the expense domain syncs write through.
// Implemented by expense.Service.
type Ledger interface {
	ExistingFingerprints(ctx context.Context, userID uuid.UUID, fingerprints []string) (map[string]struct{}, error)
	CreateBatch(ctx context.Context, userID uuid.UUID, params []expense.CreateParams) (int, error)
}

type Service struct {
	client Client
	repo   Repository
	ledger Ledger
}

func NewService(client Client, repo Repository, ledger Ledger) *Service {
	return &Service{client: client, repo: repo, ledger: ledger}
}

// LinkToken requests a short-lived token the client UI needs to open the
// provider's linking flow.
func (s *Service) LinkToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.client.CreateLinkToken(ctx, userID.String())
}

// Exchange completes linking: it trades the public token for item access,
// stores the access token out of band and records the connection.
func (s *Service) Exchange(ctx context.Context, userID uuid.UUID, publicToken, institutionName string, accounts []LinkedAccount) (*Connection, error) {
	access, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging public token: %w", err)
	}

	if institutionName == "" {
		institutionName = "Linked account"
	}

	conn := &Connection{
		ID:              access.ItemID,
		UserID:          userID,
		Provider:        "plaid",
		InstitutionName: institutionName,
		Status:          StatusActive,
		Accounts:        accounts,
	}

	if err := s.repo.SaveToken(ctx, userID, conn.ID, access.AccessToken); err != nil {
		return nil, fmt.Errorf("storing access token: %w", err)
	}

	if err := s.repo.CreateConnection(ctx, conn); err != nil {
		return nil, fmt.Errorf("recording connection: %w", err)
	}

	return conn, nil
}

func (s *Service) Connections(ctx context.Context, userID uuid.UUID) ([]*Connection, error) {
	return s.repo.ListConnections(ctx, userID)
}

// Sync pulls new transactions for one connection, or for every active
// connection when connectionID is empty. A failing connection is counted
// and skipped; it never aborts the others.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID, connectionID string) (SyncResult, error) {
	connections, err := s.resolveConnections(ctx, userID, connectionID)
	if err != nil {
		return SyncResult{}, err
	}

	var result SyncResult

	for _, conn := range connections {
		imported, skipped, err := s.syncConnection(ctx, userID, conn.ID)
		if err != nil {
			result.Errors++
			continue
		}

		result.Imported += imported
		result.Skipped += skipped
	}

	result.LastSyncAt = time.Now().UTC()

	return result, nil
}

func (s *Service) resolveConnections(ctx context.Context, userID uuid.UUID, connectionID string) ([]*Connection, error) {
	if connectionID != "" {
		conn, err := s.repo.GetConnection(ctx, userID, connectionID)
		if err != nil {
			return nil, err
		}

		return []*Connection{conn}, nil
	}

	all, err := s.repo.ListConnections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", err)
	}

	active := all[:0:0]

	for _, conn := range all {
		if conn.Status == StatusActive {
			active = append(active, conn)
		}
	}

	return active, nil
}

func (s *Service) syncConnection(ctx context.Context, userID uuid.UUID, connectionID string) (imported, skipped int, err error) {
	accessToken, cursor, err := s.repo.GetToken(ctx, userID, connectionID)
	if err != nil {
		return 0, 0, fmt.Errorf("loading access token: %w", err)
	}

	added, cursor, err := s.fetchAdded(ctx, accessToken, cursor)
	if err != nil {
		return 0, 0, err
	}

	candidates := make([]fingerprint.Candidate, 0, len(added))

	for _, tx := range added {
		// Pending transactions settle later with final amounts; credits
		// are money in, not spending.
		if tx.Pending || tx.AmountCents <= 0 {
			continue
		}

		note := tx.MerchantName
		if note == "" {
			note = tx.Name
		}

		if note == "" {
			note = "Bank transaction"
		}

		candidates = append(candidates, fingerprint.NewCandidate(tx.Date, tx.AmountCents, note, string(mapProviderCategory(tx.Category))))
	}

	// The feed can replay a transaction across pages; merge first, then
	// split against what earlier syncs already posted.
	merged := fingerprint.Merge(candidates)

	prints := make([]string, len(merged))
	for i, c := range merged {
		prints[i] = c.Fingerprint
	}

	existing, err := s.ledger.ExistingFingerprints(ctx, userID, prints)
	if err != nil {
		return 0, 0, fmt.Errorf("checking posted fingerprints: %w", err)
	}

	toImport, duplicates := fingerprint.Partition(merged, existing)

	params := make([]expense.CreateParams, 0, len(toImport))
	for _, c := range toImport {
		params = append(params, expense.CreateParams{
			AmountCents: c.AmountCents,
			Category:    expense.ParseCategory(c.Category),
			Note:        c.Note,
			Date:        c.Date,
			Fingerprint: c.Fingerprint,
		})
	}

	created, err := s.ledger.CreateBatch(ctx, userID, params)
	if err != nil {
		return 0, 0, fmt.Errorf("posting synced entries: %w", err)
	}

	if err := s.repo.SaveCursor(ctx, userID, connectionID, cursor); err != nil {
		return 0, 0, fmt.Errorf("saving sync cursor: %w", err)
	}

	if err := s.repo.TouchSynced(ctx, userID, connectionID, time.Now().UTC()); err != nil {
		return 0, 0, fmt.Errorf("updating last sync time: %w", err)
	}

	return created, len(duplicates), nil
}

// fetchAdded walks the provider's incremental feed until it reports no
// more pages, returning the accumulated additions and the final cursor.
func (s *Service) fetchAdded(ctx context.Context, accessToken, cursor string) ([]Transaction, string, error) {
	var added []Transaction

	for range syncPageCap {
		page, err := s.client.SyncTransactions(ctx, accessToken, cursor)
		if err != nil {
			return nil, "", fmt.Errorf("fetching transactions: %w", err)
		}

		added = append(added, page.Added...)
		cursor = page.NextCursor

		if !page.HasMore {
			return added, cursor, nil
		}
	}

	return nil, "", fmt.Errorf("provider kept reporting more pages after %d fetches", syncPageCap)
}

// Disconnect revokes provider access and marks the connection
// disconnected. Revocation is best effort: a provider outage must not
// leave the connection stuck active.
func (s *Service) Disconnect(ctx context.Context, userID uuid.UUID, connectionID string) error {
	accessToken, _, err := s.repo.GetToken(ctx, userID, connectionID)
	if err == nil && accessToken != "" {
		// Ignore revocation failures; the token is deleted either way.
		_ = s.client.RemoveItem(ctx, accessToken)
	}

	if err := s.repo.DeleteToken(ctx, userID, connectionID); err != nil {
		return fmt.Errorf("deleting access token: %w", err)
	}

	if err := s.repo.SetConnectionStatus(ctx, userID, connectionID, StatusDisconnected); err != nil {
		return fmt.Errorf("marking connection disconnected: %w", err)
	}

	return nil
}

// providerCategories maps the provider's primary personal-finance
// categories onto ledger categories.
var providerCategories = map[string]expense.Category{
	"FOOD_AND_DRINK":      expense.CategoryFood,
	"GROCERIES":           expense.CategoryFood,
	"TRANSPORTATION":      expense.CategoryTransport,
	"TRAVEL":              expense.CategoryTransport,
	"RENT_AND_UTILITIES":  expense.CategoryRent,
	"HOME_IMPROVEMENT":    expense.CategoryRent,
	"ENTERTAINMENT":       expense.CategoryEntertainment,
	"RECREATION":          expense.CategoryEntertainment,
	"EDUCATION":           expense.CategoryEducation,
	"GENERAL_MERCHANDISE": expense.CategoryShopping,
	"GENERAL_SERVICES":    expense.CategoryShopping,
	"PERSONAL_CARE":       expense.CategoryShopping,
	"MEDICAL":             expense.CategoryHealth,
}

func mapProviderCategory(primary string) expense.Category {
	if c, ok := providerCategories[primary]; ok {
		return c
	}

	return expense.CategoryOther
}
