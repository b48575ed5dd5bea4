package db

type User struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex"`
	CreatedAt uint   `gorm:"autoCreateTime"`
	UpdatedAt uint   `gorm:"autoUpdateTime"`
}

type UserClient ORMClient[User]

func (client *Client) User() *UserClient {
	return &UserClient{
		connection: client.connection,
	}
}

func (client *UserClient) FindByID(id uint) (User, error) {
	var user User
	err := client.connection.Take(&user, "id = ?", id).Error
	return user, err
}

func (client *UserClient) FindByName(name string) (User, error) {
	var user User
	err := client.connection.Take(&user, "name = ?", name).Error
	return user, err
}

func (client *UserClient) FindAllByIDs(ids []uint) ([]User, error) {
	var users []User
	err := client.connection.Where("id IN ?", ids).
		Find(&users).
		Error
	return users, err
}
