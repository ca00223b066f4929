package pad

import (
	"testing"

	"ideapad/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_SelectedIdeaLooksUpCache(t *testing.T) {
	st := NewState("", nil, nil)
	st.Cache.PrependIdea(model.Idea{ID: "a", Title: "A", UserID: "u"})

	_, ok := st.SelectedIdea()
	assert.False(t, ok)

	st.Nav.NavigateTo(ViewIdeaDetail, "a")
	i, ok := st.SelectedIdea()
	require.True(t, ok)
	assert.Equal(t, "A", i.Title)

	st.Cache.ReplaceIdea(model.Idea{ID: "a", Title: "A2", UserID: "u"})
	i, _ = st.SelectedIdea()
	assert.Equal(t, "A2", i.Title, "detail reflects cache updates")

	st.Cache.RemoveIdea("a")
	_, ok = st.SelectedIdea()
	assert.False(t, ok)
}

func TestState_ToggleFolder(t *testing.T) {
	st := &State{}
	assert.True(t, st.ToggleFolder(UnfolderedKey))
	assert.True(t, st.OpenFolders[UnfolderedKey])
	assert.False(t, st.ToggleFolder(UnfolderedKey))
	assert.NotContains(t, st.OpenFolders, UnfolderedKey)
}

func TestState_SignOutDropsUserData(t *testing.T) {
	st := NewState("ideas", nil, nil)
	st.UserID = "u"
	st.Cache.PrependIdea(model.Idea{ID: "a", Title: "A", UserID: "u"})
	st.Form.NewIdeaTitle = "draft"
	st.Search = "q"
	st.ToggleFolder("f1")

	st.SignOut()
	assert.Empty(t, st.UserID)
	assert.Empty(t, st.Cache.Ideas())
	assert.Equal(t, Form{}, st.Form)
	assert.Empty(t, st.Search)
	assert.Empty(t, st.OpenFolders)
	assert.Equal(t, ViewIdeas, st.Nav.Current())
}
