package service

import (
	"ai_tutor_backend/internal/model"
	"ai_tutor_backend/internal/repository"
	"ai_tutor_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserService 个人资料与学习统计
type UserService struct {
	UserRepo *repository.UserRepository
	Courses  *CourseService
}

func NewUserService(userRepo *repository.UserRepository, courses *CourseService) *UserService {
	return &UserService{UserRepo: userRepo, Courses: courses}
}

type ProfileUser struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

type ProfileStats struct {
	TotalCourses      int `json:"totalCourses"`
	CompletedCourses  int `json:"completedCourses"`
	InProgressCourses int `json:"inProgressCourses"`
}

type Profile struct {
	User    ProfileUser     `json:"user"`
	Stats   ProfileStats    `json:"stats"`
	Courses []CourseSummary `json:"courses"`
}

// GetProfile ready 状态的课程计为学习中
func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	courses, err := s.Courses.ListCourses(userID)
	if err != nil {
		return nil, err
	}

	stats := ProfileStats{TotalCourses: len(courses)}
	for _, c := range courses {
		switch c.Status {
		case model.CourseCompleted:
			stats.CompletedCourses++
		case model.CourseReady:
			stats.InProgressCourses++
		}
	}

	return &Profile{
		User: ProfileUser{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Username:  user.Username(),
			CreatedAt: user.CreatedAt,
		},
		Stats:   stats,
		Courses: courses,
	}, nil
}
