package service_test

import (
	"testing"

	"github.com/madxrebel/MStock/internal/model"
	"github.com/madxrebel/MStock/internal/repository"
	"github.com/madxrebel/MStock/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newParties(db *gorm.DB) service.PartyService {
	return service.NewPartyService(repository.NewPartyRepo(db))
}

func TestRegisterParty(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)

	party := &model.Party{
		Type:       model.PartyShopkeeper,
		Name:       "Corner Shop",
		Phone:      "0300-1234567",
		NationalID: "42101-1234567-1",
		Address:    "Main Bazaar, Lahore",
	}
	require.NoError(t, parties.RegisterParty(party, testOwner))

	assert.NotEqual(t, uuid.Nil, party.ID)
	assert.Equal(t, testOwner, party.OwnerID)

	fetched, err := parties.GetParty(testOwner, party.ID)
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", fetched.Name)
	assert.Equal(t, model.PartyShopkeeper, fetched.Type)
}

func TestRegisterPartyValidation(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)

	tests := []struct {
		name  string
		party *model.Party
	}{
		{
			name:  "missing name",
			party: &model.Party{Type: model.PartySupplier},
		},
		{
			name:  "missing type",
			party: &model.Party{Name: "Corner Shop"},
		},
		{
			name:  "unknown type",
			party: &model.Party{Type: "CUSTOMER", Name: "Corner Shop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parties.RegisterParty(tt.party, testOwner)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestListPartiesFiltersByType(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)

	seedParty(t, db, model.PartySupplier, "Wholesale Co")
	seedParty(t, db, model.PartySupplier, "Importers Ltd")
	seedParty(t, db, model.PartyShopkeeper, "Corner Shop")

	suppliers, err := parties.ListParties(testOwner, model.PartySupplier)
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)
	for _, party := range suppliers {
		assert.Equal(t, model.PartySupplier, party.Type)
	}

	shopkeepers, err := parties.ListParties(testOwner, model.PartyShopkeeper)
	require.NoError(t, err)
	assert.Len(t, shopkeepers, 1)

	all, err := parties.ListParties(testOwner, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = parties.ListParties(testOwner, "CUSTOMER")
	assert.Error(t, err)
}

func TestPartiesScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)

	seedParty(t, db, model.PartyShopkeeper, "Corner Shop")

	theirs := &model.Party{Type: model.PartyShopkeeper, Name: "Foreign Shop", OwnerID: "someone-else"}
	require.NoError(t, db.Create(theirs).Error)

	mine, err := parties.ListParties(testOwner, "")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = parties.GetParty(testOwner, theirs.ID)
	assert.ErrorIs(t, err, service.ErrPartyNotFound)
}

func TestDeleteParty(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)

	party := seedParty(t, db, model.PartyShopkeeper, "Corner Shop")

	require.NoError(t, parties.DeleteParty(testOwner, party.ID))

	_, err := parties.GetParty(testOwner, party.ID)
	assert.ErrorIs(t, err, service.ErrPartyNotFound)

	err = parties.DeleteParty(testOwner, party.ID)
	assert.ErrorIs(t, err, service.ErrPartyNotFound)
}

func TestDeletedPartyKeepsTransactionHistory(t *testing.T) {
	db := newTestDB(t)
	parties := newParties(db)
	wf := newWorkflow(db)

	party := seedParty(t, db, model.PartyShopkeeper, "Corner Shop")
	product := seedProduct(t, db, "SKU-1", "Soap Bar", 5, 10, 0)

	created, err := wf.Issue(testOwner, party.ID, []service.IssueItem{
		{ProductID: product.ID, Units: 2},
	})
	require.NoError(t, err)

	require.NoError(t, parties.DeleteParty(testOwner, party.ID))

	// The transaction survives its party.
	fetched, err := wf.GetTransaction(testOwner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, party.ID, fetched.PartyID)
	assert.Equal(t, int64(10), fetched.TotalIssuedPrice)
}
