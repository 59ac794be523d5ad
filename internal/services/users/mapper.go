package users

import "github.com/yerkebulan111/movie-land-platform/internal/mongodb"

func MapDbUserToApiUser(userDb mongodb.UserDb) User {
	watchlist := userDb.Watchlist
	if watchlist == nil {
		watchlist = []string{}
	}

	return User{
		Id:        userDb.Id,
		Username:  userDb.Username,
		Email:     userDb.Email,
		Role:      userDb.Role,
		Watchlist: watchlist,
		CreatedAt: userDb.CreatedAt,
	}
}

func MapDbUsersToApiUsers(usersDb []mongodb.UserDb) []User {
	allUsers := make([]User, len(usersDb))
	for i, userDb := range usersDb {
		allUsers[i] = MapDbUserToApiUser(userDb)
	}
	return allUsers
}
