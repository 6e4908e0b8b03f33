package services

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/juicebox/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAssociationService_Reconcile(t *testing.T) {
	ctx := context.Background()
	const postID = int64(7)

	happy := models.Tag{ID: 1, Name: "#happy"}
	inspo := models.Tag{ID: 2, Name: "#youcandoanything"}
	red := models.Tag{ID: 3, Name: "#redfish"}
	blue := models.Tag{ID: 4, Name: "#bluefish"}

	tests := []struct {
		name      string
		desired   []string
		upserted  []models.Tag
		current   []int64
		wantAdd   []int64
		wantDrop  []int64
		skipUpsrt bool
	}{
		{
			name:     "new post",
			desired:  []string{"#happy", "#youcandoanything"},
			upserted: []models.Tag{happy, inspo},
			current:  []int64{},
			wantAdd:  []int64{1, 2},
		},
		{
			name:     "replace set",
			desired:  []string{"#youcandoanything", "#redfish", "#bluefish"},
			upserted: []models.Tag{inspo, red, blue},
			current:  []int64{1, 2},
			wantAdd:  []int64{3, 4},
			wantDrop: []int64{1},
		},
		{
			name:     "same set is a no-op",
			desired:  []string{"#happy", "#youcandoanything"},
			upserted: []models.Tag{happy, inspo},
			current:  []int64{2, 1},
		},
		{
			name:      "empty set removes everything",
			desired:   []string{},
			current:   []int64{1, 2},
			wantDrop:  []int64{1, 2},
			skipUpsrt: true,
		},
		{
			name:     "duplicates collapse",
			desired:  []string{"#happy", "#happy"},
			upserted: []models.Tag{happy},
			current:  []int64{},
			wantAdd:  []int64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			tags := NewMockTagWriter(ctrl)
			reader := NewMockPostTagReader(ctrl)
			writer := NewMockPostTagWriter(ctrl)

			if !tt.skipUpsrt {
				tags.EXPECT().UpsertByNames(ctx, tt.desired).Return(tt.upserted, nil)
			}
			reader.EXPECT().ListTagIDs(ctx, postID).Return(tt.current, nil)
			if tt.wantDrop != nil {
				writer.EXPECT().Remove(ctx, postID, tt.wantDrop).Return(nil)
			}
			if tt.wantAdd != nil {
				writer.EXPECT().Add(ctx, postID, tt.wantAdd).Return(nil)
			}

			svc := NewAssociationService(tags, reader, writer)
			assert.NoError(t, svc.Reconcile(ctx, postID, tt.desired))
		})
	}
}

func TestAssociationService_Reconcile_Errors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tags := NewMockTagWriter(ctrl)
	reader := NewMockPostTagReader(ctrl)
	writer := NewMockPostTagWriter(ctrl)
	svc := NewAssociationService(tags, reader, writer)

	// 1. Upsert fails
	tags.EXPECT().UpsertByNames(ctx, []string{"#a"}).Return(nil, errors.New("upsert error"))
	assert.EqualError(t, svc.Reconcile(ctx, 1, []string{"#a"}), "upsert error")

	// 2. Listing current tags fails
	tags.EXPECT().UpsertByNames(ctx, []string{"#a"}).Return([]models.Tag{{ID: 1, Name: "#a"}}, nil)
	reader.EXPECT().ListTagIDs(ctx, int64(1)).Return(nil, errors.New("list error"))
	assert.EqualError(t, svc.Reconcile(ctx, 1, []string{"#a"}), "list error")

	// 3. Remove fails, add is not attempted
	tags.EXPECT().UpsertByNames(ctx, []string{"#a"}).Return([]models.Tag{{ID: 1, Name: "#a"}}, nil)
	reader.EXPECT().ListTagIDs(ctx, int64(1)).Return([]int64{2}, nil)
	writer.EXPECT().Remove(ctx, int64(1), []int64{2}).Return(errors.New("remove error"))
	assert.EqualError(t, svc.Reconcile(ctx, 1, []string{"#a"}), "remove error")

	// 4. Add fails
	tags.EXPECT().UpsertByNames(ctx, []string{"#a"}).Return([]models.Tag{{ID: 1, Name: "#a"}}, nil)
	reader.EXPECT().ListTagIDs(ctx, int64(1)).Return([]int64{}, nil)
	writer.EXPECT().Add(ctx, int64(1), []int64{1}).Return(errors.New("add error"))
	assert.EqualError(t, svc.Reconcile(ctx, 1, []string{"#a"}), "add error")
}

func TestDifference(t *testing.T) {
	assert.Equal(t, []int64{3, 4}, difference([]int64{2, 3, 4}, []int64{1, 2}))
	assert.Equal(t, []int64{}, difference([]int64{1}, []int64{1}))
	assert.Equal(t, []int64{1}, difference([]int64{1, 1}, nil))
}
