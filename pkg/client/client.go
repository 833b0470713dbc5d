package client

import (
	"fmt"

	"github.com/MAHIRE-7/drive-clone/internal/events"
	"github.com/MAHIRE-7/drive-clone/internal/models"

	"github.com/go-resty/resty/v2"
)

// Client is a typed wrapper around the drive REST API, mirroring the web
// frontend's service layer. The bearer token is attached to every request
// once set.
type Client struct {
	http *resty.Client
}

type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
	Token string `json:"token"`
}

type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	StorageUsed int64  `json:"storageUsed"`
}

func New(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(baseURL)

	return &Client{http: http}
}

// SetToken sets the bearer token used for authenticated calls
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

func apiError(resp *resty.Response) error {
	return fmt.Errorf("api error: %s: %s", resp.Status(), resp.String())
}

// Register creates an account and stores the returned token on the client
func (c *Client) Register(email, password, name string) (*AuthResponse, error) {
	var out AuthResponse
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email, "password": password, "name": name}).
		SetResult(&out).
		Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.SetToken(out.Token)
	return &out, nil
}

// Login authenticates and stores the returned token on the client
func (c *Client) Login(email, password string) (*AuthResponse, error) {
	var out AuthResponse
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) GetProfile() (*Profile, error) {
	var out Profile
	resp, err := c.http.R().SetResult(&out).Get("/api/auth/profile")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// Upload sends a local file, optionally into a folder (empty folderID = root)
func (c *Client) Upload(localPath, folderID string) (*models.File, error) {
	var out models.File
	req := c.http.R().
		SetFile("file", localPath).
		SetResult(&out)
	if folderID != "" {
		req.SetFormData(map[string]string{"folderId": folderID})
	}

	resp, err := req.Post("/api/files/upload")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// GetFiles lists the caller's files in a folder (empty folderID = root)
func (c *Client) GetFiles(folderID string) ([]models.File, error) {
	var out []models.File
	req := c.http.R().SetResult(&out)
	if folderID != "" {
		req.SetQueryParam("folderId", folderID)
	}

	resp, err := req.Get("/api/files")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

func (c *Client) GetSharedFiles() ([]models.File, error) {
	var out []models.File
	resp, err := c.http.R().SetResult(&out).Get("/api/files/shared")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

// Download fetches a file's content
func (c *Client) Download(fileID string) ([]byte, error) {
	resp, err := c.http.R().Get("/api/files/" + fileID + "/download")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return resp.Body(), nil
}

func (c *Client) DeleteFile(fileID string) error {
	resp, err := c.http.R().Delete("/api/files/" + fileID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// ShareFile grants read access to the user with the given email
func (c *Client) ShareFile(fileID, email string) (*models.File, error) {
	var out models.File
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email}).
		SetResult(&out).
		Post("/api/files/" + fileID + "/share")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) StarFile(fileID string) error {
	resp, err := c.http.R().Post("/api/files/" + fileID + "/star")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) UnstarFile(fileID string) error {
	resp, err := c.http.R().Delete("/api/files/" + fileID + "/star")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

func (c *Client) GetStarredFiles() ([]models.File, error) {
	var out []models.File
	resp, err := c.http.R().SetResult(&out).Get("/api/files/starred")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

func (c *Client) GetRecentFiles() ([]models.File, error) {
	var out []models.File
	resp, err := c.http.R().SetResult(&out).Get("/api/files/recent")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

// CreateFolder creates a folder (empty parentID = root)
func (c *Client) CreateFolder(name, parentID string) (*models.Folder, error) {
	var out models.Folder
	body := map[string]string{"name": name}
	if parentID != "" {
		body["parentId"] = parentID
	}

	resp, err := c.http.R().
		SetBody(body).
		SetResult(&out).
		Post("/api/folders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// GetFolders lists the caller's folders under a parent (empty parentID = root)
func (c *Client) GetFolders(parentID string) ([]models.Folder, error) {
	var out []models.Folder
	req := c.http.R().SetResult(&out)
	if parentID != "" {
		req.SetQueryParam("parentId", parentID)
	}

	resp, err := req.Get("/api/folders")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}

func (c *Client) DeleteFolder(folderID string) error {
	resp, err := c.http.R().Delete("/api/folders/" + folderID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}

// ShareFolder grants read access to the user with the given email
func (c *Client) ShareFolder(folderID, email string) (*models.Folder, error) {
	var out models.Folder
	resp, err := c.http.R().
		SetBody(map[string]string{"email": email}).
		SetResult(&out).
		Post("/api/folders/" + folderID + "/share")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

func (c *Client) GetActivities() ([]events.ActivityEvent, error) {
	var out []events.ActivityEvent
	resp, err := c.http.R().SetResult(&out).Get("/api/activities")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return out, nil
}
