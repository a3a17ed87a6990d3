package notebook_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/browser/mocks"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/locale"
	"github.com/vmunix/nbpod/internal/notebook"
	"go.uber.org/mock/gomock"
)

func TestGenerator_Confirmed(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := mocks.NewMockPage(ctrl)
	generate := browser.Button("Generate")

	gomock.InOrder(
		page.EXPECT().Lang(gomock.Any()).Return("en-US", nil),
		page.EXPECT().WaitEnabled(gomock.Any(), generate).Return(nil),
		page.EXPECT().Click(gomock.Any(), generate).Return(nil),
		page.EXPECT().WaitDisabled(gomock.Any(), generate).Return(nil),
		page.EXPECT().URL(gomock.Any()).Return("https://notebooklm.google.com/notebook/1", nil),
	)
	rec := &recorder{}

	res, err := notebook.NewGenerator(testOptions(), rec, testLogger()).Generate(context.Background(), page)

	require.NoError(t, err)
	assert.True(t, res.Confirmed)
	require.Len(t, rec.events, 1)
	triggered, ok := rec.events[0].(*events.GenerationTriggered)
	require.True(t, ok)
	assert.True(t, triggered.Confirmed)
	assert.Equal(t, "https://notebooklm.google.com/notebook/1", triggered.EntityKey())
}

func TestGenerator_UnconfirmedStillSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := mocks.NewMockPage(ctrl)
	generate := browser.Button("生成")

	page.EXPECT().Lang(gomock.Any()).Return("ja", nil)
	page.EXPECT().WaitEnabled(gomock.Any(), generate).Return(nil)
	page.EXPECT().Click(gomock.Any(), generate).Return(nil)
	page.EXPECT().WaitDisabled(gomock.Any(), generate).Return(fmt.Errorf("wait: %w", browser.ErrTimeout))
	page.EXPECT().URL(gomock.Any()).Return("", nil)

	res, err := notebook.NewGenerator(testOptions(), nil, testLogger()).Generate(context.Background(), page)

	require.NoError(t, err)
	assert.False(t, res.Confirmed)
}

func TestGenerator_ClickFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	page := mocks.NewMockPage(ctrl)
	clickErr := errors.New("node detached")

	page.EXPECT().Lang(gomock.Any()).Return("en", nil)
	page.EXPECT().WaitEnabled(gomock.Any(), gomock.Any()).Return(nil)
	page.EXPECT().Click(gomock.Any(), gomock.Any()).Return(clickErr)

	_, err := notebook.NewGenerator(testOptions(), nil, testLogger()).Generate(context.Background(), page)

	require.ErrorIs(t, err, clickErr)
}

func TestGenerator_FakePage(t *testing.T) {
	page := sourceDialogPage(locale.English)

	res, err := notebook.NewGenerator(testOptions(), nil, testLogger()).Generate(context.Background(), page)

	require.NoError(t, err)
	assert.True(t, res.Confirmed, "fake disables the button on click")
}
