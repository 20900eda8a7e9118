package services

import (
	"testing"
	"time"

	"github.com/nvalmar/postdeck-be/internal/models"
	"github.com/nvalmar/postdeck-be/internal/websocket"
	"github.com/stretchr/testify/require"
)

func newPostFixture(t *testing.T) (*PostService, *UserService) {
	t.Helper()

	db := newTestDB(t)
	activity := NewActivityService(db)
	users := NewUserService(db, activity)
	posts := NewPostService(db, activity, websocket.NewHub())
	return posts, users
}

func statusPtr(s models.PostStatus) *models.PostStatus { return &s }

func TestCreateDefaultsToDraft(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	post, err := posts.Create(owner.ID, "Hi", "World", nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusDraft, post.Status)
	require.False(t, post.IsDeleted)
	require.Equal(t, []string{}, post.Tags)
	require.Equal(t, post.CreatedAt, post.UpdatedAt)

	got, err := posts.Get(post.ID, false)
	require.NoError(t, err)
	require.Equal(t, owner.ID, got.UserID)
	require.Equal(t, models.StatusDraft, got.Status)
}

func TestCreateInvalidStatus(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	_, err := posts.Create(owner.ID, "Hi", "World", statusPtr("Live"), nil)
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = posts.Create(owner.ID, "   ", "World", nil, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestEditOmittedStatusPreserved(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	created, err := posts.Create(owner.ID, "Hi", "World", statusPtr(models.StatusPublished), nil)
	require.NoError(t, err)

	// No status in the edit: the post must stay Published, not fall back
	// to Draft.
	edited, err := posts.Edit(owner.ID, created.ID, "Hi again", "World again", nil, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusPublished, edited.Status)

	got, err := posts.Get(created.ID, false)
	require.NoError(t, err)
	require.Equal(t, models.StatusPublished, got.Status)
	require.Equal(t, "Hi again", got.Title)
}

func TestEditChangesStatusAndBumpsUpdated(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	created, err := posts.Create(owner.ID, "Hi", "World", nil, nil)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	edited, err := posts.Edit(owner.ID, created.ID, "Hi", "World", statusPtr(models.StatusArchived), nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusArchived, edited.Status)
	require.True(t, edited.UpdatedAt.After(created.UpdatedAt))
	require.Equal(t, created.CreatedAt.Unix(), edited.CreatedAt.Unix())
}

func TestMutationsByNonOwnerMerged(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	alice := registerTestUser(t, users, "alice@example.com")
	bob := registerTestUser(t, users, "bob@example.com")

	post, err := posts.Create(alice.ID, "Hi", "World", nil, nil)
	require.NoError(t, err)

	// Existing post, wrong owner
	_, err = posts.Edit(bob.ID, post.ID, "Hacked", "Hacked", nil, nil)
	require.ErrorIs(t, err, ErrNotFoundOrForbidden)
	require.ErrorIs(t, posts.SoftDelete(bob.ID, post.ID), ErrNotFoundOrForbidden)
	require.ErrorIs(t, posts.Restore(bob.ID, post.ID), ErrNotFoundOrForbidden)

	// Missing post: identical error
	_, err = posts.Edit(bob.ID, "no-such-post", "x", "y", nil, nil)
	require.ErrorIs(t, err, ErrNotFoundOrForbidden)
	require.ErrorIs(t, posts.SoftDelete(bob.ID, "no-such-post"), ErrNotFoundOrForbidden)

	// Nothing changed
	got, err := posts.Get(post.ID, false)
	require.NoError(t, err)
	require.Equal(t, "Hi", got.Title)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	created, err := posts.Create(owner.ID, "Hi", "World", statusPtr(models.StatusPublished), []string{"a", "b"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, posts.SoftDelete(owner.ID, created.ID))

	_, err = posts.Get(created.ID, false)
	require.ErrorIs(t, err, ErrNotFoundOrForbidden)

	deleted, err := posts.Get(created.ID, true)
	require.NoError(t, err)
	require.True(t, deleted.IsDeleted)
	require.Equal(t, models.StatusPublished, deleted.Status, "status survives deletion")

	// Deleted posts cannot be edited or deleted again
	_, err = posts.Edit(owner.ID, created.ID, "x", "y", nil, nil)
	require.ErrorIs(t, err, ErrNotFoundOrForbidden)
	require.ErrorIs(t, posts.SoftDelete(owner.ID, created.ID), ErrNotFoundOrForbidden)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, posts.Restore(owner.ID, created.ID))

	restored, err := posts.Get(created.ID, false)
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)
	require.Equal(t, created.Title, restored.Title)
	require.Equal(t, created.Content, restored.Content)
	require.Equal(t, created.Status, restored.Status)
	require.Equal(t, created.Tags, restored.Tags)
	require.True(t, restored.UpdatedAt.After(created.UpdatedAt))

	// Restoring an active post fails the same way as any bad transition
	require.ErrorIs(t, posts.Restore(owner.ID, created.ID), ErrNotFoundOrForbidden)
}

func TestListByOwnerOrderingAndVisibility(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")
	other := registerTestUser(t, users, "bob@example.com")

	first, err := posts.Create(owner.ID, "first", "one", nil, nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := posts.Create(owner.ID, "second", "two", nil, nil)
	require.NoError(t, err)
	_, err = posts.Create(other.ID, "theirs", "three", nil, nil)
	require.NoError(t, err)

	require.NoError(t, posts.SoftDelete(owner.ID, first.ID))

	visible, err := posts.ListByOwner(owner.ID, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, second.ID, visible[0].ID)

	all, err := posts.ListByOwner(owner.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Most recent first
	require.Equal(t, second.ID, all[0].ID)
	require.Equal(t, first.ID, all[1].ID)
	require.True(t, all[1].IsDeleted)
}

func TestListAll(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	kept, err := posts.Create(owner.ID, "kept", "visible", nil, nil)
	require.NoError(t, err)
	gone, err := posts.Create(owner.ID, "gone", "hidden", nil, nil)
	require.NoError(t, err)
	require.NoError(t, posts.SoftDelete(owner.ID, gone.ID))

	visible, err := posts.ListAll(false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, kept.ID, visible[0].ID)

	all, err := posts.ListAll(true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	_, err := posts.Create(owner.ID, "Gopher news", "nothing here", statusPtr(models.StatusPublished), nil)
	require.NoError(t, err)
	_, err = posts.Create(owner.ID, "Other title", "all about GOPHERS", nil, nil)
	require.NoError(t, err)
	hidden, err := posts.Create(owner.ID, "gopher again", "soon deleted", nil, nil)
	require.NoError(t, err)
	require.NoError(t, posts.SoftDelete(owner.ID, hidden.ID))
	_, err = posts.Create(owner.ID, "unrelated", "no match", nil, nil)
	require.NoError(t, err)

	// Case-insensitive over title OR content, deleted hidden by default
	results, err := posts.Search("gopher", nil, false)
	require.NoError(t, err)
	require.Len(t, results, 2)

	withDeleted, err := posts.Search("gopher", nil, true)
	require.NoError(t, err)
	require.Len(t, withDeleted, 3)

	published, err := posts.Search("gopher", statusPtr(models.StatusPublished), false)
	require.NoError(t, err)
	require.Len(t, published, 1)
	require.Equal(t, "Gopher news", published[0].Title)

	_, err = posts.Search("gopher", statusPtr("Bogus"), false)
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTagsRoundTrip(t *testing.T) {
	t.Parallel()

	posts, users := newPostFixture(t)
	owner := registerTestUser(t, users, "alice@example.com")

	// Commas are data, not delimiters
	withComma, err := posts.Create(owner.ID, "tagged", "body", nil, []string{"go,lang", "web"})
	require.NoError(t, err)
	got, err := posts.Get(withComma.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{"go,lang", "web"}, got.Tags)

	// A single empty-string tag is distinct from no tags
	emptyTag, err := posts.Create(owner.ID, "empty tag", "body", nil, []string{""})
	require.NoError(t, err)
	got, err = posts.Get(emptyTag.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{""}, got.Tags)

	noTags, err := posts.Create(owner.ID, "no tags", "body", nil, nil)
	require.NoError(t, err)
	got, err = posts.Get(noTags.ID, false)
	require.NoError(t, err)
	require.Equal(t, []string{}, got.Tags)
}
