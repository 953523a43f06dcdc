package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docvault-api/internal/application/dto"
	"github.com/jhoicas/docvault-api/internal/application/events"
	"github.com/jhoicas/docvault-api/internal/application/keys"
	"github.com/jhoicas/docvault-api/internal/application/usecase"
	"github.com/jhoicas/docvault-api/internal/domain"
	"github.com/jhoicas/docvault-api/internal/domain/entity"
)

const signedKeyMsg = `{"id":"key-msg-1","cle":"mF4…","signature":"zQm…"}`

func newGroupUC(repo *fakeGroupRepo, custodian *fakeCustodian, notifier *fakeNotifier) *usecase.GroupUseCase {
	return usecase.NewGroupUseCase(repo, custodian, notifier)
}

func seedGroup(t *testing.T, repo *fakeGroupRepo, groupID, categoryID string) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), &entity.Group{
		OwnerID:    testOwner,
		GroupID:    groupID,
		CategoryID: categoryID,
		Key:        entity.KeyRef{KeyID: "key-" + groupID},
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// save-group
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: creación con llave adjunta → la llave llega al custodio antes de la
// escritura, correlacionada por el id del mensaje de llave; luego se publica
// groupUpdated particionado por propietario.
func TestGroupSave_CreacionEntregaLlave(t *testing.T) {
	repo := newFakeGroupRepo()
	custodian := &fakeCustodian{}
	notifier := &fakeNotifier{}
	uc := newGroupUC(repo, custodian, notifier)

	resp, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		CategoryID:    "cat-1",
		EncryptedData: "bZx…",
		Format:        "mgs4",
		KeyID:         "key-msg-1",
		Key:           json.RawMessage(signedKeyMsg),
	})
	require.NoError(t, err)

	assert.True(t, resp.Ok)
	assert.Equal(t, testCommandID, resp.GroupID, "sin group_id hereda el id del comando")

	require.Len(t, custodian.attached, 1)
	assert.JSONEq(t, signedKeyMsg, string(custodian.attached[0]))
	assert.Equal(t, []string{"key-msg-1"}, custodian.correlations)

	require.Len(t, notifier.published, 1)
	assert.Equal(t, events.GroupUpdated, notifier.published[0].Name)
	assert.Equal(t, testOwner, notifier.published[0].Partition)
}

// Caso 2: sin category_id → validación.
func TestGroupSave_CategoriaRequerida(t *testing.T) {
	uc := newGroupUC(newFakeGroupRepo(), &fakeCustodian{}, &fakeNotifier{})

	_, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		EncryptedData: "bZx…",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

// Caso 3: grupo nuevo sin llave adjunta → ErrKeyMissing, nada se escribe.
func TestGroupSave_NuevoSinLlave(t *testing.T) {
	repo := newFakeGroupRepo()
	custodian := &fakeCustodian{}
	uc := newGroupUC(repo, custodian, &fakeNotifier{})

	_, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		CategoryID:    "cat-1",
		EncryptedData: "bZx…",
	})
	require.ErrorIs(t, err, domain.ErrKeyMissing)
	assert.Empty(t, repo.rows)
	assert.Empty(t, custodian.attached)
}

// Caso 4: actualización sin llave adjunta → reutiliza la llave existente.
func TestGroupSave_ActualizacionReutilizaLlave(t *testing.T) {
	repo := newFakeGroupRepo()
	custodian := &fakeCustodian{}
	uc := newGroupUC(repo, custodian, &fakeNotifier{})
	seedGroup(t, repo, "grp-1", "cat-1")

	resp, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		GroupID:       "grp-1",
		CategoryID:    "cat-1",
		EncryptedData: "nuevo-contenido",
	})
	require.NoError(t, err)
	assert.Equal(t, "grp-1", resp.GroupID)
	assert.Empty(t, custodian.attached, "sin llave adjunta no hay intercambio con el custodio")
	assert.Equal(t, "nuevo-contenido", repo.rows[catKey(testOwner, "grp-1")].EncryptedData)
}

// Caso 5: cambiar la categoría de un grupo existente → ErrCategoryImmutable.
func TestGroupSave_CategoriaInmutable(t *testing.T) {
	repo := newFakeGroupRepo()
	uc := newGroupUC(repo, &fakeCustodian{}, &fakeNotifier{})
	seedGroup(t, repo, "grp-1", "cat-1")

	_, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		GroupID:       "grp-1",
		CategoryID:    "cat-2",
		EncryptedData: "bZx…",
	})
	require.ErrorIs(t, err, domain.ErrCategoryImmutable)
}

// Caso 6: los tres fallos del protocolo del custodio abortan el guardado con
// el error tipado intacto; la fila nunca se escribe.
func TestGroupSave_FallosDelCustodio(t *testing.T) {
	cases := []struct {
		name string
		code int
	}{
		{"Timeout", keys.CodeTimeout},
		{"RespuestaInesperada", keys.CodeBadResponse},
		{"RechazoExplicito", keys.CodeRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeGroupRepo()
			custodian := &fakeCustodian{attachErr: &keys.DelegationError{Code: tc.code, Message: "fallo"}}
			uc := newGroupUC(repo, custodian, &fakeNotifier{})

			_, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
				CategoryID:    "cat-1",
				EncryptedData: "bZx…",
				Key:           json.RawMessage(signedKeyMsg),
			})
			var delegationErr *keys.DelegationError
			require.ErrorAs(t, err, &delegationErr)
			assert.Equal(t, tc.code, delegationErr.Code)
			assert.Empty(t, repo.rows)
		})
	}
}

// Caso 7: mensaje de llave sin id → validación, sin llamada al custodio.
func TestGroupSave_LlaveSinID(t *testing.T) {
	custodian := &fakeCustodian{}
	uc := newGroupUC(newFakeGroupRepo(), custodian, &fakeNotifier{})

	_, err := uc.Save(context.Background(), testOwner, testCommandID, dto.SaveGroupRequest{
		CategoryID: "cat-1",
		Key:        json.RawMessage(`{"cle":"mF4…"}`),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, custodian.attached)
}

// ──────────────────────────────────────────────────────────────────────────────
// delete/restore-group
// ──────────────────────────────────────────────────────────────────────────────

// Borrado y restauración felices, con su evento groupDeleted en cada
// transición.
func TestGroupSetDeleted_CicloCompleto(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &fakeNotifier{}
	uc := newGroupUC(repo, &fakeCustodian{}, notifier)
	seedGroup(t, repo, "grp-1", "cat-1")

	require.NoError(t, uc.SetDeleted(context.Background(), testOwner, "grp-1", true))
	assert.True(t, repo.rows[catKey(testOwner, "grp-1")].Deleted)
	assert.NotNil(t, repo.rows[catKey(testOwner, "grp-1")].DeletedAt)

	require.NoError(t, uc.SetDeleted(context.Background(), testOwner, "grp-1", false))
	assert.False(t, repo.rows[catKey(testOwner, "grp-1")].Deleted)
	assert.Nil(t, repo.rows[catKey(testOwner, "grp-1")].DeletedAt)

	require.Len(t, notifier.published, 2)
	for _, ev := range notifier.published {
		assert.Equal(t, events.GroupDeleted, ev.Name)
	}
	assert.Equal(t, events.DeletionBody{ID: "grp-1", Deleted: true}, notifier.published[0].Body)
	assert.Equal(t, events.DeletionBody{ID: "grp-1", Deleted: false}, notifier.published[1].Body)
}

// Taxonomía: inexistente → ErrNotFound; ya en el estado pedido →
// ErrAlreadyInState sin evento duplicado.
func TestGroupSetDeleted_Taxonomia(t *testing.T) {
	repo := newFakeGroupRepo()
	notifier := &fakeNotifier{}
	uc := newGroupUC(repo, &fakeCustodian{}, notifier)
	seedGroup(t, repo, "grp-1", "cat-1")

	err := uc.SetDeleted(context.Background(), testOwner, "no-existe", true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.SetDeleted(context.Background(), testOwner, "grp-1", true))
	err = uc.SetDeleted(context.Background(), testOwner, "grp-1", true)
	require.ErrorIs(t, err, domain.ErrAlreadyInState)

	assert.Len(t, notifier.published, 1, "el duplicado no publica evento")
}
