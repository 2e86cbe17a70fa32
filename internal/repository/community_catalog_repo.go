package repository

import (
	"Haven/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommunityCatalogRepo interface {
	LoadCatalog(ctx context.Context) ([]*model.Community, error)
	SaveCommunity(ctx context.Context, community *model.Community) error
	SeedIfEmpty(ctx context.Context, seeds []*model.Community) (int, error)
}

type communityCatalogRepoImpl struct {
	db *gorm.DB
}

func NewCommunityCatalogRepo(db *gorm.DB) CommunityCatalogRepo {
	return &communityCatalogRepoImpl{db: db}
}

// LoadCatalog 读取种子社区及其成员，按 sort_order 排序
func (s *communityCatalogRepoImpl) LoadCatalog(ctx context.Context) ([]*model.Community, error) {
	var list []*model.Community
	err := s.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("user_id ASC")
		}).
		Order("sort_order ASC, created_at ASC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SaveCommunity 写入或覆盖种子社区，成员重复时忽略
func (s *communityCatalogRepoImpl) SaveCommunity(ctx context.Context, community *model.Community) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Clauses(clause.OnConflict{UpdateAll: true}).Create(community).Error; err != nil {
			return err
		}
		for i := range community.Members {
			community.Members[i].CommunityID = community.ID
		}
		if len(community.Members) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&community.Members).Error
	})
}

// SeedIfEmpty 目录表为空时写入初始社区，返回写入数量
func (s *communityCatalogRepoImpl) SeedIfEmpty(ctx context.Context, seeds []*model.Community) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Community{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for _, c := range seeds {
		if err := s.SaveCommunity(ctx, c); err != nil {
			return 0, err
		}
	}
	return len(seeds), nil
}
