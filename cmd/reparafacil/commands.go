package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grupo8/reparafacil/internal/client/viewmodel"
	"github.com/grupo8/reparafacil/internal/core/domain"
)

func (a *app) register(ctx context.Context, args []string) error {
	fs := newFlags("register", a.out)
	var form viewmodel.RegistrationForm
	fs.StringVar(&form.Name, "name", "", "full name")
	fs.StringVar(&form.Email, "email", "", "email")
	fs.StringVar(&form.Password, "password", "", "password (6+ characters)")
	fs.StringVar(&form.Phone, "phone", "", "phone number")
	fs.StringVar(&form.Role, "role", "", "cliente or tecnico (default cliente)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st := a.authVM.Register(ctx, form)
	if err := stateError(a, st); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "welcome, %s\n", st.Data.User.Name)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := newFlags("login", a.out)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errUsage
	}

	st := a.authVM.Login(ctx, *email, *password)
	if err := stateError(a, st); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged in as %s (%s)\n", st.Data.User.Name, st.Data.User.Role)
	return nil
}

func (a *app) logout(ctx context.Context, _ []string) error {
	if err := a.authVM.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *app) whoami(_ context.Context, _ []string) error {
	u := a.authVM.CurrentUser()
	if u == nil {
		return domain.ErrNoActiveSession
	}
	printUser(a.out, u)
	return nil
}

func (a *app) profile(ctx context.Context, _ []string) error {
	vm := viewmodel.NewProfileViewModel(ctx, a.auth, a.log)
	st := vm.Load(ctx)
	if st.User == nil {
		if st.Message != "" {
			fmt.Fprintln(a.out, "error:", st.Message)
			return errReported
		}
		return domain.ErrNoActiveSession
	}
	if st.Message != "" {
		fmt.Fprintf(a.out, "offline, showing saved profile (%s)\n", st.Message)
	}
	printUser(a.out, st.User)

	if ref, err := a.auth.AvatarRef(ctx, st.User.ID); err != nil {
		a.log.Warn().Err(err).Msg("avatar unreadable")
	} else if ref != "" {
		fmt.Fprintf(a.out, "avatar  %s\n", ref)
	}
	return nil
}

func (a *app) avatar(ctx context.Context, args []string) error {
	fs := newFlags("avatar", a.out)
	uri := fs.String("uri", "", "local image reference")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *uri == "" {
		return errUsage
	}

	u := a.authVM.CurrentUser()
	if u == nil {
		return domain.ErrNoActiveSession
	}
	if err := a.auth.SaveAvatarRef(ctx, u.ID, *uri); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "avatar saved")
	return nil
}

func (a *app) servicesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	vm := viewmodel.NewServicesViewModel(a.services, a.log)

	switch args[0] {
	case "list":
		st := vm.Load(ctx)
		if err := stateError(a, st); err != nil {
			return err
		}
		printServices(a.out, st.Data)
		return nil

	case "create":
		fs := newFlags("services create", a.out)
		var form viewmodel.ServiceForm
		fs.StringVar(&form.Type, "tipo", "", "appliance type")
		fs.StringVar(&form.Description, "descripcion", "", "what is wrong (10+ characters)")
		fs.StringVar(&form.Address, "direccion", "", "visit address")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		st := vm.Submit(ctx, form)
		if err := stateError(a, st); err != nil {
			return err
		}
		printService(a.out, st.Data)
		return nil

	case "get":
		id, err := idArg(args[1:])
		if err != nil {
			return err
		}
		s, err := a.services.Get(ctx, id)
		if err != nil {
			return err
		}
		printService(a.out, s)
		return nil

	case "advance":
		fs := newFlags("services advance", a.out)
		id := fs.Int64("id", 0, "service id")
		estado := fs.String("estado", "", "en_proceso or completado")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		status, ok := domain.ParseServiceStatus(*estado)
		if *id <= 0 || !ok {
			return errUsage
		}
		st := vm.Advance(ctx, *id, status)
		if err := stateError(a, st); err != nil {
			return err
		}
		printService(a.out, st.Data)
		return nil
	}
	return errUsage
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, errUsage
	}
	return id, nil
}
